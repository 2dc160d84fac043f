package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agroland-backend/config"
)

// RazorpayService handles payment gateway integration
type RazorpayService struct {
	config *config.Config
	client *http.Client
}

// NewRazorpayService creates a new Razorpay service
func NewRazorpayService(cfg *config.Config) *RazorpayService {
	return &RazorpayService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// RazorpayOrderRequest represents an order creation request. Amounts are
// in the currency's smallest unit (paise for INR).
type RazorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// RazorpayOrder represents the gateway's order response
type RazorpayOrder struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// RazorpayError represents a gateway error payload
type RazorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// IsConfigured reports whether gateway credentials are present
func (s *RazorpayService) IsConfigured() bool {
	return s.config.RazorpayKeyID != "" && s.config.RazorpayKeySecret != ""
}

// KeyID returns the public key identifier the client-side checkout needs
func (s *RazorpayService) KeyID() string {
	return s.config.RazorpayKeyID
}

// CreateOrder creates a gateway order for the given amount
func (s *RazorpayService) CreateOrder(amount float64, currency string) (*RazorpayOrder, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("payment gateway is not configured")
	}
	if currency == "" {
		currency = "INR"
	}

	orderReq := RazorpayOrderRequest{
		Amount:   int64(amount * 100), // smallest currency unit
		Currency: currency,
		Receipt:  fmt.Sprintf("receipt_order_%d", time.Now().UnixMilli()),
	}

	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequest("POST", s.config.RazorpayBaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString(
		[]byte(s.config.RazorpayKeyID + ":" + s.config.RazorpayKeySecret),
	)
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var gatewayErr RazorpayError
		if err := json.Unmarshal(respBody, &gatewayErr); err == nil && gatewayErr.Error.Description != "" {
			return nil, fmt.Errorf("gateway rejected order: %s", gatewayErr.Error.Description)
		}
		return nil, fmt.Errorf("gateway rejected order with status %d", resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("empty order id received")
	}

	return &order, nil
}

// VerifySignature checks the checkout signature the client returns after
// payment. The gateway signs "orderID|paymentID" with the key secret.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	if s.config.RazorpayKeySecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.config.RazorpayKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
