package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
)

const (
	HeaderVocabularyVersion = "X-Vocabulary-Version"
	HeaderRequestID         = "X-Request-ID"

	// Responses larger than this are rejected
	maxResponseBytes = 1 << 20
)

// endpoint is a JSON-over-HTTP model endpoint.
type endpoint struct {
	url               string
	client            *http.Client
	vocabularyVersion string
}

func newEndpoint(url, vocabularyVersion string, timeout time.Duration) endpoint {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return endpoint{
		url:               url,
		client:            &http.Client{Timeout: timeout},
		vocabularyVersion: vocabularyVersion,
	}
}

// post sends body as JSON and decodes the response into out.
func (e endpoint) post(ctx context.Context, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderVocabularyVersion, e.vocabularyVersion)
	if id := engine.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("%w: %s %d", ErrBadStatus, e.url, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// featureRequest is the request body shared by all model endpoints.
type featureRequest struct {
	Features [][]float64        `json:"features"`
	Profile  *domain.UserProfile `json:"profile,omitempty"`
}

// FocusClient calls the focus model. The response maps day names to focus tags, either at the
// top level or under a "focus" key.
type FocusClient struct {
	endpoint
}

func NewFocusClient(url, vocabularyVersion string, timeout time.Duration) *FocusClient {
	return &FocusClient{endpoint: newEndpoint(url, vocabularyVersion, timeout)}
}

func (c *FocusClient) PredictFocus(ctx context.Context, profile domain.UserProfile, row []float64) (engine.FocusPredictions, error) {
	var raw map[string]any
	if err := c.post(ctx, featureRequest{Features: [][]float64{row}, Profile: &profile}, &raw); err != nil {
		return nil, err
	}
	if nested, ok := raw["focus"].(map[string]any); ok {
		raw = nested
	}
	return engine.FocusPredictionsFromRaw(raw), nil
}

// RegressorClient calls the sets/reps model. The response is a list of [sets, reps] pairs, one per row.
type RegressorClient struct {
	endpoint
}

func NewRegressorClient(url, vocabularyVersion string, timeout time.Duration) *RegressorClient {
	return &RegressorClient{endpoint: newEndpoint(url, vocabularyVersion, timeout)}
}

func (c *RegressorClient) PredictLoad(ctx context.Context, row []float64) (float64, float64, error) {
	var out [][]float64
	if err := c.post(ctx, featureRequest{Features: [][]float64{row}}, &out); err != nil {
		return math.NaN(), math.NaN(), err
	}
	if len(out) != 1 || len(out[0]) < 2 {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: want one [sets, reps] pair, got %v", ErrBadResponse, out)
	}
	return out[0][0], out[0][1], nil
}

// ScoreClient calls the intensity score model. The response is a list of scores, one per row.
type ScoreClient struct {
	endpoint
}

func NewScoreClient(url, vocabularyVersion string, timeout time.Duration) *ScoreClient {
	return &ScoreClient{endpoint: newEndpoint(url, vocabularyVersion, timeout)}
}

func (c *ScoreClient) Score(ctx context.Context, row []float64) (float64, error) {
	var out []float64
	if err := c.post(ctx, featureRequest{Features: [][]float64{row}}, &out); err != nil {
		return math.NaN(), err
	}
	if len(out) != 1 {
		return math.NaN(), fmt.Errorf("%w: want one score, got %d", ErrBadResponse, len(out))
	}
	return out[0], nil
}
