package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Prediction is the model API's answer for one image.
type Prediction struct {
	Label         string             `json:"predicted_class"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// Health mirrors the serving stack's readiness payload.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Client talks to the deployed model-serving API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return h, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return h, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return h, fmt.Errorf("health: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return h, fmt.Errorf("health: decode: %w", err)
	}
	return h, nil
}

// Predict uploads the image at path and returns the parsed prediction.
func (c *Client) Predict(ctx context.Context, path string) (Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return Prediction{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.PredictReader(ctx, filepath.Base(path), f)
}

// PredictReader uploads r as a multipart "file" field named filename.
func (c *Client) PredictReader(ctx context.Context, filename string, r io.Reader) (Prediction, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Prediction{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return Prediction{}, fmt.Errorf("copy payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/predict", &body)
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Prediction{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("predict: HTTP %d", resp.StatusCode)
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Prediction{}, fmt.Errorf("predict: decode: %w", err)
	}
	if p.Label == "" {
		return Prediction{}, fmt.Errorf("predict: response missing predicted_class")
	}
	return p, nil
}
