package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ttacon/libphonenumber"
)

const (
	defaultRegion   = "IQ"
	defaultTemplate = "confirmation2"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// WhatsApp sends template messages through the WhatsApp Cloud API.
type WhatsApp struct {
	URL      string
	Token    string
	Template string
	Language string
	Client   *http.Client
}

func NewWhatsApp(url, token, template string) *WhatsApp {
	if template == "" {
		template = defaultTemplate
	}
	return &WhatsApp{
		URL:      url,
		Token:    token,
		Template: template,
		Language: "ar",
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NormalizePhone parses phone as an Iraqi number and returns it in E.164
// form without the leading plus, as the Cloud API expects.
func NormalizePhone(phone string) (string, error) {
	p, err := libphonenumber.Parse(phone, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPhone, phone, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return strings.TrimPrefix(libphonenumber.Format(p, libphonenumber.E164), "+"), nil
}

type waParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type waComponent struct {
	Type       string        `json:"type"`
	Parameters []waParameter `json:"parameters"`
}

type waLanguage struct {
	Code string `json:"code"`
}

type waTemplate struct {
	Name       string        `json:"name"`
	Language   waLanguage    `json:"language"`
	Components []waComponent `json:"components"`
}

type waMessage struct {
	MessagingProduct string     `json:"messaging_product"`
	To               string     `json:"to"`
	Type             string     `json:"type"`
	Template         waTemplate `json:"template"`
}

type waErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Notify sends n.Params as the template body. Notifications without a phone
// are skipped.
func (w *WhatsApp) Notify(ctx context.Context, n Notification) error {
	if n.Phone == "" {
		return nil
	}
	to, err := NormalizePhone(n.Phone)
	if err != nil {
		return err
	}

	params := n.Params
	if len(params) == 0 {
		params = []string{n.Message}
	}

	msg := waMessage{MessagingProduct: "whatsapp", To: to, Type: "template"}
	msg.Template.Name = w.Template
	msg.Template.Language.Code = w.Language
	comp := waComponent{Type: "body"}
	for _, p := range params {
		comp.Parameters = append(comp.Parameters, waParameter{Type: "text", Text: p})
	}
	msg.Template.Components = []waComponent{comp}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.Token)

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb waErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Error.Message == "" {
			eb.Error.Message = resp.Status
		}
		return fmt.Errorf("whatsapp API error [%d]: %s", resp.StatusCode, eb.Error.Message)
	}
	return nil
}
