package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjiri1684/skill_swap/utils"
	"github.com/rs/zerolog/log"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string

	endpoint string
	client   *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// NewEmailService returns nil when the service is not fully configured;
// callers treat a nil service as "email disabled".
func NewEmailService(apiKey, senderEmail, senderName string) *BrevoService {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Warn().Msg("email service not configured, missing API key, sender email or sender name")
		return nil
	}

	log.Info().Str("sender", senderEmail).Msg("email service initialized")
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		endpoint:    brevoEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoService) Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if !utils.ValidateEmail(toEmail) {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

var mentorWelcomeTemplate = template.Must(template.New("mentor_welcome").Parse(`<h2>Welcome to SkillXchange, {{.Name}}!</h2>
<p>Your mentor profile is live. Learners can now find you for: {{.Expertise}}.</p>
<p>Payments for your sessions go to <code>{{.Wallet}}</code>.</p>`))

// SendMentorWelcome emails a newly registered mentor. Failures are logged.
func (s *BrevoService) SendMentorWelcome(ctx context.Context, name, email string, expertise []string, wallet string) {
	if s == nil {
		log.Debug().Str("email", email).Msg("email service disabled, skipping mentor welcome")
		return
	}

	var body bytes.Buffer
	err := mentorWelcomeTemplate.Execute(&body, struct {
		Name      string
		Expertise string
		Wallet    string
	}{name, strings.Join(expertise, ", "), wallet})
	if err != nil {
		log.Error().Err(err).Msg("failed to render mentor welcome email")
		return
	}

	if err := s.Send(ctx, email, name, "Welcome to SkillXchange", body.String()); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to send mentor welcome email")
		return
	}
	log.Info().Str("email", email).Msg("mentor welcome email sent")
}
