package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// Order is what the confirmation mail tells the shopper.
type Order struct {
	ItemCount int
	Total     string
}

type Service interface {
	SendOrderConfirmation(ctx context.Context, to, name string, order Order) error
}

type resendService struct {
	apiKey    string
	fromEmail string
	baseURL   string
	client    *http.Client
}

func NewResendService(apiKey, from, baseURL string) Service {
	if from == "" {
		from = "onboarding@resend.dev"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &resendService{
		apiKey:    apiKey,
		fromEmail: from,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func NewResendServiceFromEnv() (Service, error) {
	apiKey := strings.Trim(os.Getenv("RESEND_API_KEY"), "\"")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is not configured")
	}

	from := strings.TrimSpace(strings.Trim(os.Getenv("RESEND_FROM_EMAIL"), "\""))
	return NewResendService(apiKey, from, os.Getenv("RESEND_BASE_URL")), nil
}

func NewNoopService() Service {
	return &noopService{}
}

func (s *resendService) SendOrderConfirmation(ctx context.Context, to, name string, order Order) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for shopping at RedSeam. We received your order of %d item(s).</p><p>Total: <strong>$%s</strong></p>",
		html.EscapeString(name),
		order.ItemCount,
		html.EscapeString(order.Total),
	)
	return s.send(ctx, to, "Your RedSeam order", body)
}

func (s *resendService) send(ctx context.Context, to, subject, html string) error {
	payload := map[string]any{
		"from":    s.fromEmail,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(respBody))
		if len(msg) > 500 {
			msg = msg[:500]
		}
		if msg == "" {
			return fmt.Errorf("resend API returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("resend API returned status %d: %s", resp.StatusCode, msg)
	}

	return nil
}

type noopService struct{}

func (s *noopService) SendOrderConfirmation(_ context.Context, _, _ string, _ Order) error {
	return nil
}
