package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	MaxRequestSize    int64
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequireHTTPS      bool
}

// DefaultSecurityConfig returns default security configuration
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxRequestSize:    10 * 1024 * 1024, // 10MB
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequireHTTPS:      false, // Set to true in production
	}
}

// SecurityMiddleware provides request size limits, per-IP rate limiting,
// content-type validation and security headers
func SecurityMiddleware(config *SecurityConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultSecurityConfig()
	}

	// Rate limiter per IP
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		// 1. Request size validation
		if c.Request.ContentLength > config.MaxRequestSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   "Request body too large",
			})
			c.Abort()
			return
		}

		// 2. Rate limiting per IP (skip if disabled for development)
		if os.Getenv("DISABLE_RATE_LIMITING") != "true" {
			clientIP := c.ClientIP()
			mu.Lock()
			limiter, exists := limiters[clientIP]
			if !exists {
				limiter = rate.NewLimiter(rate.Every(config.RateLimitWindow/time.Duration(config.RateLimitRequests)), config.RateLimitRequests)
				limiters[clientIP] = limiter
			}
			mu.Unlock()

			if !limiter.Allow() {
				fmt.Printf("Rate limit exceeded for IP: %s, Path: %s %s\n", clientIP, c.Request.Method, c.Request.URL.Path)

				c.JSON(http.StatusTooManyRequests, gin.H{
					"success": false,
					"error":   "Rate limit exceeded",
				})
				c.Abort()
				return
			}
		}

		// 3. Content-Type validation for POST/PUT requests
		if c.Request.Method == "POST" || c.Request.Method == "PUT" || c.Request.Method == "PATCH" {
			contentType := c.GetHeader("Content-Type")

			// Upload endpoints take multipart bodies validated separately
			if strings.Contains(c.Request.URL.Path, "/upload/") {
				c.Next()
				return
			}

			if contentType == "" {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Content-Type header required",
				})
				c.Abort()
				return
			}

			validContentTypes := []string{
				"application/json",
				"multipart/form-data",
				"application/x-www-form-urlencoded",
			}

			isValid := false
			for _, validType := range validContentTypes {
				if strings.Contains(contentType, validType) {
					isValid = true
					break
				}
			}

			if !isValid {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{
					"success": false,
					"error":   "Unsupported content type: " + contentType,
				})
				c.Abort()
				return
			}
		}

		// 4. Security headers
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// OAuth callback serves an inline success page
		if strings.Contains(c.Request.URL.Path, "/auth/google/callback") {
			c.Header("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; img-src 'self' data:")
		} else {
			c.Header("Content-Security-Policy", "default-src 'self'")
		}

		// 5. HTTPS enforcement (if enabled)
		if config.RequireHTTPS && c.Request.Header.Get("X-Forwarded-Proto") != "https" {
			c.JSON(http.StatusUpgradeRequired, gin.H{
				"success": false,
				"error":   "HTTPS required",
			})
			c.Abort()
			return
		}

		// 6. Block path traversal and script injection in the URL
		suspiciousPatterns := []string{
			"../", "..\\", "<script", "javascript:", "vbscript:",
			"onload=", "onerror=", "eval(", "expression(",
		}

		requestURI := strings.ToLower(c.Request.RequestURI)
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(requestURI, pattern) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Suspicious request pattern detected",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// InputValidationMiddleware bounds query parameter length and rejects
// obvious markup injection in query values
func InputValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for key, values := range c.Request.URL.Query() {
			for _, value := range values {
				if len(value) > 1000 {
					c.JSON(http.StatusBadRequest, gin.H{
						"success": false,
						"error":   "Query parameter too long: " + key,
					})
					c.Abort()
					return
				}

				dangerous := []string{
					"<script", "javascript:", "onload=", "onerror=",
					"<iframe", "<object", "<embed", "data:text/html",
					"eval(", "expression(",
				}
				lowerValue := strings.ToLower(value)
				for _, pattern := range dangerous {
					if strings.Contains(lowerValue, pattern) {
						c.JSON(http.StatusBadRequest, gin.H{
							"success": false,
							"error":   "Invalid characters in query parameter: " + key,
						})
						c.Abort()
						return
					}
				}
			}
		}

		c.Next()
	}
}

// FileUploadSecurityMiddleware validates multipart uploads before the
// handlers see them: size caps, image-only content types, and filename checks
func FileUploadSecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			contentType := c.GetHeader("Content-Type")

			if strings.Contains(contentType, "multipart/form-data") {
				err := c.Request.ParseMultipartForm(5 * 1024 * 1024) // 5MB limit
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{
						"success": false,
						"error":   "Failed to parse multipart form: " + err.Error(),
					})
					c.Abort()
					return
				}

				if c.Request.MultipartForm != nil && c.Request.MultipartForm.File != nil {
					allowedTypes := map[string]bool{
						"image/jpeg": true,
						"image/jpg":  true,
						"image/png":  true,
						"image/webp": true,
					}

					for _, files := range c.Request.MultipartForm.File {
						for _, file := range files {
							if file.Size > 5*1024*1024 { // 5MB per file
								c.JSON(http.StatusBadRequest, gin.H{
									"success": false,
									"error":   "File too large: " + file.Filename,
								})
								c.Abort()
								return
							}

							contentType := file.Header.Get("Content-Type")
							if !allowedTypes[contentType] {
								c.JSON(http.StatusBadRequest, gin.H{
									"success": false,
									"error":   "Invalid file type: " + file.Filename,
								})
								c.Abort()
								return
							}

							filename := strings.ToLower(file.Filename)
							dangerousExtensions := []string{".exe", ".bat", ".cmd", ".scr", ".pif", ".js", ".vbs", ".php", ".asp"}
							for _, ext := range dangerousExtensions {
								if strings.HasSuffix(filename, ext) {
									c.JSON(http.StatusBadRequest, gin.H{
										"success": false,
										"error":   "Dangerous file type: " + file.Filename,
									})
									c.Abort()
									return
								}
							}
						}
					}
				}
			}
		}

		c.Next()
	}
}

// AuthRateLimitMiddleware provides stricter rate limiting for auth endpoints
func AuthRateLimitMiddleware() gin.HandlerFunc {
	var mu sync.Mutex
	authLimiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		// Skip rate limiting if disabled for development
		if os.Getenv("DISABLE_RATE_LIMITING") == "true" {
			c.Next()
			return
		}

		clientIP := c.ClientIP()

		mu.Lock()
		limiter, exists := authLimiters[clientIP]
		if !exists {
			// 100 attempts per minute per IP on auth routes
			limiter = rate.NewLimiter(rate.Every(time.Minute/100), 100)
			authLimiters[clientIP] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			fmt.Printf("Auth rate limit exceeded for IP: %s, Path: %s %s\n", clientIP, c.Request.Method, c.Request.URL.Path)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many authentication attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
