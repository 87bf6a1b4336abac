package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := NewServer(zap.NewNop(), []string{"cat", "dog"})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postImage(t *testing.T, url, filename string) map[string]any {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	mw.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, url+"/predict", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("predict HTTP %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestStub_HealthPayload(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	var h map[string]any
	json.NewDecoder(resp.Body).Decode(&h)
	if h["status"] != "healthy" || h["model_loaded"] != true {
		t.Fatalf("unexpected health payload: %+v", h)
	}
}

func TestStub_PredictionFollowsFilename(t *testing.T) {
	ts := newTestServer(t)
	out := postImage(t, ts.URL, "cat_0042.jpg")
	if out["predicted_class"] != "cat" {
		t.Fatalf("filename with class name must classify as that class: %+v", out)
	}
	conf, _ := out["confidence"].(float64)
	if conf < 0.6 || conf > 0.99 {
		t.Fatalf("confidence out of stub range: %v", conf)
	}

	// deterministic across calls
	again := postImage(t, ts.URL, "cat_0042.jpg")
	if again["confidence"] != out["confidence"] {
		t.Fatalf("stub answers must be stable: %v vs %v", again["confidence"], out["confidence"])
	}
}

func TestStub_MetricsCountRequests(t *testing.T) {
	ts := newTestServer(t)
	postImage(t, ts.URL, "dog_1.jpg")
	postImage(t, ts.URL, "dog_2.jpg")

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	body := buf.String()
	if !strings.Contains(body, "inference_requests_total") {
		t.Fatalf("exposition missing counter:\n%s", body)
	}
	if !strings.Contains(body, `inference_requests_total{outcome="ok"} 2`) {
		t.Fatalf("counter not incremented:\n%s", body)
	}
}

func TestStub_PredictWithoutFileIs400(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/predict", "text/plain", strings.NewReader("nope"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}
