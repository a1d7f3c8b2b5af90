package anomaly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPDetector calls a remote model service over JSON.
type HTTPDetector struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDetector builds a detector against the model service base URL.
func NewHTTPDetector(baseURL string) *HTTPDetector {
	return &HTTPDetector{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type predictRequest struct {
	Columns []string    `json:"columns"`
	Matrix  [][]float64 `json:"matrix"`
}

type predictResponse struct {
	Flags  []bool    `json:"flags"`
	Scores []float64 `json:"scores"`
}

// Predict submits the feature matrix and returns per-row flags and scores.
func (d *HTTPDetector) Predict(ctx context.Context, columns []string, matrix [][]float64) (*Prediction, error) {
	payload, err := json.Marshal(predictRequest{Columns: columns, Matrix: matrix})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service returned status %d", resp.StatusCode)
	}

	var body predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if len(body.Flags) != len(matrix) || len(body.Scores) != len(matrix) {
		return nil, fmt.Errorf("model service returned %d flags / %d scores for %d rows",
			len(body.Flags), len(body.Scores), len(matrix))
	}

	return &Prediction{Flags: body.Flags, Scores: body.Scores}, nil
}

var _ Detector = (*HTTPDetector)(nil)
