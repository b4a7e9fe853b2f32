package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// EmailService sends transactional email
type EmailService interface {
	SendVerificationEmail(email, userName, token string) error
	SendWelcomeEmail(email, userName string) error
}

// ResendConfig represents Resend email service configuration
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	BaseURL   string
}

// ResendEmailService sends email via the Resend HTTP API
type ResendEmailService struct {
	config ResendConfig
	client *http.Client
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config ResendConfig) *ResendEmailService {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.resend.com"
	}
	return &ResendEmailService{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
}

type resendErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (s *ResendEmailService) fromField() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

func (s *ResendEmailService) send(to, subject, text string) error {
	payload, err := json.Marshal(resendEmailRequest{
		From:    s.fromField(),
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr resendErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("resend API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}

	return nil
}

// SendVerificationEmail sends the email verification link
func (s *ResendEmailService) SendVerificationEmail(email, userName, token string) error {
	subject := "Verify your email address"
	text := fmt.Sprintf(
		"Hi %s,\n\nWelcome to TicketHub! Please verify your email address by opening this link:\n\n/api/auth/verify?token=%s\n\nIf you did not create an account, you can ignore this email.\n",
		userName, token)
	return s.send(email, subject, text)
}

// SendWelcomeEmail sends a post-verification welcome
func (s *ResendEmailService) SendWelcomeEmail(email, userName string) error {
	subject := "Welcome to TicketHub"
	text := fmt.Sprintf("Hi %s,\n\nYour account is verified and ready. Happy ticket hunting!\n", userName)
	return s.send(email, subject, text)
}

// LogEmailService logs emails instead of sending them. Used in development
// when no Resend API key is configured.
type LogEmailService struct{}

// NewLogEmailService creates a logging email service
func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

// SendVerificationEmail logs the verification token
func (s *LogEmailService) SendVerificationEmail(email, userName, token string) error {
	log.Printf("email [verification] to=%s name=%s token=%s", email, userName, token)
	return nil
}

// SendWelcomeEmail logs the welcome email
func (s *LogEmailService) SendWelcomeEmail(email, userName string) error {
	log.Printf("email [welcome] to=%s name=%s", email, userName)
	return nil
}
