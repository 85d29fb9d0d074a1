// Package answer calls the remote question-answering service.
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Vishal25102002/planify/internal/metrics"
	"github.com/Vishal25102002/planify/internal/models"
)

// ErrUnavailable reports that the answering service could not produce an
// answer: a transport failure, a non-2xx status or a malformed body. The
// caller does not need to tell these apart.
var ErrUnavailable = errors.New("answering service unavailable")

// Answer is the service's reply to a question.
type Answer struct {
	Text       string
	References []models.Reference
}

// Client talks to the answering service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Client for the answering service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer     string             `json:"answer"`
	References []models.Reference `json:"references"`
}

// Ask sends one question to the service. No retries are attempted: any
// failure is reported as ErrUnavailable and the caller decides what to
// show the user.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("encoding question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.AnswerRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.AnswerLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.AnswerRequests.WithLabelValues("error").Inc()
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Msg("answering service returned an error")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed askResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.AnswerRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	metrics.AnswerRequests.WithLabelValues("ok").Inc()
	return &Answer{Text: parsed.Answer, References: parsed.References}, nil
}

// Ping checks that the answering service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
