package services

import (
	"fmt"
	"log"
	"net/smtp"

	"agroland-backend/config"
	"agroland-backend/internal/utils"
)

// EmailService handles email sending functionality
type EmailService struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	fromEmail    string
	clientURL    string
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	s := &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		clientURL:    cfg.ClientURL,
	}
	if s.fromEmail == "" {
		s.fromEmail = cfg.SMTPUsername
	}

	if !s.isConfigured() {
		log.Println("Email service: SMTP not configured, emails will be simulated")
	}
	return s
}

func (s *EmailService) isConfigured() bool {
	return s.smtpHost != "" && s.smtpPort != 0 && s.smtpUsername != "" && s.smtpPassword != ""
}

// sendEmail sends an HTML email using SMTP
func (s *EmailService) sendEmail(toEmail, subject, htmlBody string) error {
	if !s.isConfigured() {
		// Development mode: log instead of sending
		log.Printf("Simulating email send to %s: %s", toEmail, subject)
		return nil
	}

	message := fmt.Sprintf("From: %s\r\n", s.fromEmail)
	message += fmt.Sprintf("To: %s\r\n", toEmail)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=UTF-8\r\n"
	message += "\r\n"
	message += htmlBody

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	addr := fmt.Sprintf("%s:%d", s.smtpHost, s.smtpPort)

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPasswordResetEmail sends a password reset link to the user
func (s *EmailService) SendPasswordResetEmail(toEmail, resetToken, userName string) error {
	if userName == "" {
		userName = "there"
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, resetToken)

	content := fmt.Sprintf(`
		<p style="font-size: 18px; color: #1e293b; margin-bottom: 24px;">Hello <span class="highlight">%s</span>,</p>

		<p>We received a request to reset the password for your AgroLand account. Click the button below to choose a new password:</p>

		<div class="security-notice">
			<p style="margin: 0; font-size: 14px; color: #92400e;"><strong>Security Notice:</strong> This link expires in <strong>30 minutes</strong>. If you didn't request a reset, you can safely ignore this email.</p>
		</div>

		<p>For your security, never share this link with anyone.</p>

		<p style="margin-top: 30px;">Best regards,<br><span class="highlight">The AgroLand Team</span></p>
	`, userName)

	body := utils.GetEmailTemplate("Password Reset Request", content, "Reset Password", resetURL)
	return s.sendEmail(toEmail, "AgroLand - Password Reset Request", body)
}

// SendEmailVerificationEmail sends an address verification link
func (s *EmailService) SendEmailVerificationEmail(toEmail, verificationToken, userName string) error {
	if userName == "" {
		userName = "there"
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.clientURL, verificationToken)

	content := fmt.Sprintf(`
		<p style="font-size: 18px; color: #1e293b; margin-bottom: 24px;">Hello <span class="highlight">%s</span>,</p>

		<p>Welcome to <strong>AgroLand</strong>! To complete your registration and start browsing farmland listings, please verify your email address:</p>

		<div class="security-notice">
			<p style="margin: 0; font-size: 14px; color: #92400e;"><strong>Security Notice:</strong> This link expires in <strong>24 hours</strong>. If you didn't create an AgroLand account, please ignore this email.</p>
		</div>

		<p style="margin-top: 30px;">Welcome aboard!<br><span class="highlight">The AgroLand Team</span></p>
	`, userName)

	body := utils.GetEmailTemplate("Verify Your Email Address", content, "Verify Email", verifyURL)
	return s.sendEmail(toEmail, "AgroLand - Verify Your Email", body)
}

// SendInquiryNotificationEmail tells a seller they have a new inquiry
func (s *EmailService) SendInquiryNotificationEmail(toEmail, ownerName, buyerName, landTitle, message string) error {
	if ownerName == "" {
		ownerName = "there"
	}

	inquiriesURL := fmt.Sprintf("%s/inquiries", s.clientURL)

	content := fmt.Sprintf(`
		<p style="font-size: 18px; color: #1e293b; margin-bottom: 24px;">Hello <span class="highlight">%s</span>,</p>

		<p><span class="highlight">%s</span> sent an inquiry about your listing <strong>%s</strong>:</p>

		<p style="border-left: 4px solid #16a34a; padding-left: 16px; color: #475569;">%s</p>

		<p>Reply from your dashboard to keep the conversation going.</p>

		<p style="margin-top: 30px;">Best regards,<br><span class="highlight">The AgroLand Team</span></p>
	`, ownerName, buyerName, landTitle, message)

	body := utils.GetEmailTemplate("New Inquiry Received", content, "View Inquiries", inquiriesURL)
	return s.sendEmail(toEmail, "AgroLand - New Inquiry on "+landTitle, body)
}

// SendTestEmail sends a test email to verify configuration
func (s *EmailService) SendTestEmail(toEmail string) error {
	content := `
		<p style="font-size: 18px; color: #1e293b; margin-bottom: 24px;">Hello,</p>

		<p>This is a test email from AgroLand to verify that the email service is configured correctly.</p>

		<p style="margin-top: 30px;">Email system operational.<br><span class="highlight">The AgroLand Team</span></p>
	`
	body := utils.GetEmailTemplate("Email Service Test", content, "", "")
	return s.sendEmail(toEmail, "AgroLand - Email Service Test", body)
}
