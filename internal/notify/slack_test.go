package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

func TestSlack_SendPostsPayload(t *testing.T) {
	var got slackPayload
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer s.Close()

	sl := NewSlack(s.URL)
	if err := sl.Send(context.Background(), "model drift", "accuracy down"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(got.Text, "model drift") || !strings.Contains(got.Text, "accuracy down") {
		t.Fatalf("payload wrong: %+v", got)
	}
}

func TestSlack_NilIsNoOp(t *testing.T) {
	var sl *Slack
	if err := sl.Send(context.Background(), "t", "x"); err != nil {
		t.Fatalf("nil notifier must be a no-op, got %v", err)
	}
	if NewSlack("") != nil {
		t.Fatalf("empty webhook should yield nil notifier")
	}
}

func TestSlack_Non2xxFails(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer s.Close()

	sl := NewSlack(s.URL)
	if err := sl.Send(context.Background(), "t", "x"); err == nil {
		t.Fatalf("want error on non-2xx")
	}
}

func TestDriftText_OnlyDriftedVerdicts(t *testing.T) {
	text := DriftText([]domain.DriftVerdict{
		{Metric: "accuracy", BaselineValue: 0.8, CurrentValue: 0.7, Threshold: 0.05, Drifted: true},
		{Metric: "mean_confidence", BaselineValue: 0.8, CurrentValue: 0.79, Threshold: 0.1, Drifted: false},
		{Metric: "per_class_accuracy", Class: "cat", BaselineValue: 0.9, CurrentValue: 0.5, Threshold: 0.1, Drifted: true},
	})
	if !strings.Contains(text, "accuracy") || !strings.Contains(text, "per_class_accuracy[cat]") {
		t.Fatalf("drifted verdicts missing: %q", text)
	}
	if strings.Contains(text, "mean_confidence:") {
		t.Fatalf("non-drifted verdict should be omitted: %q", text)
	}
}
