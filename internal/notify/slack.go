package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

// Slack posts alerts to an incoming-webhook URL. A nil *Slack (no webhook
// configured) is a valid no-op Notifier value.
type Slack struct {
	Webhook string
	Client  *http.Client
}

func NewSlack(webhook string) *Slack {
	if webhook == "" {
		return nil
	}
	return &Slack{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type slackPayload struct {
	Text string `json:"text"`
}

func (s *Slack) Send(ctx context.Context, title, text string) error {
	if s == nil || s.Webhook == "" {
		return nil
	}
	body, err := json.Marshal(slackPayload{Text: "*" + title + "*\n" + text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("slack webhook: HTTP %d", resp.StatusCode)
	}
	return nil
}

// DriftText formats the drifted verdicts into an alert body.
func DriftText(verdicts []domain.DriftVerdict) string {
	var b strings.Builder
	for _, v := range verdicts {
		if !v.Drifted {
			continue
		}
		name := v.Metric
		if v.Class != "" {
			name = fmt.Sprintf("%s[%s]", v.Metric, v.Class)
		}
		fmt.Fprintf(&b, "%s: %.3f -> %.3f (threshold %.3f)\n", name, v.BaselineValue, v.CurrentValue, v.Threshold)
	}
	return strings.TrimRight(b.String(), "\n")
}
