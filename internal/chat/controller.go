// Package chat drives the request/response cycle of a conversation turn:
// user message in, answering service call, bot message out.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Vishal25102002/planify/internal/answer"
	"github.com/Vishal25102002/planify/internal/metrics"
	"github.com/Vishal25102002/planify/internal/models"
	"github.com/Vishal25102002/planify/internal/store"
)

// Fallback is shown as the bot's reply when the answering service fails.
const Fallback = "Sorry, something went wrong. Please try again."

var (
	// ErrEmptyMessage reports a whitespace-only submission.
	ErrEmptyMessage = errors.New("empty message")

	// ErrBusy reports that a turn is already in flight.
	ErrBusy = errors.New("a message is already being processed")
)

// Asker produces an answer for a question.
type Asker interface {
	Ask(ctx context.Context, question string) (*answer.Answer, error)
}

// Controller orchestrates chat turns. At most one turn is in flight at a
// time; the loading flag is the mutual-exclusion mechanism and is
// observable by the presentation layer.
type Controller struct {
	store   *store.ConversationStore
	client  Asker
	logger  zerolog.Logger
	loading atomic.Bool
	wg      sync.WaitGroup
}

// NewController creates a Controller over the given store and client.
func NewController(st *store.ConversationStore, client Asker, logger zerolog.Logger) *Controller {
	return &Controller{store: st, client: client, logger: logger}
}

// Loading reports whether a turn is in flight.
func (c *Controller) Loading() bool {
	return c.loading.Load()
}

// Wait blocks until the in-flight turn, if any, has completed. Used to
// drain the controller on shutdown and in tests.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Submit starts a chat turn for text and returns the ID of the
// conversation that received the user message, without waiting for the
// answer. Whitespace-only input yields ErrEmptyMessage and a submit
// while another turn is in flight yields ErrBusy; neither mutates any
// state. The target conversation is captured here, so the bot's reply
// lands in it even if the user switches to another one before the
// answer arrives.
func (c *Controller) Submit(text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyMessage
	}
	if !c.loading.CompareAndSwap(false, true) {
		return 0, ErrBusy
	}

	userMsg := models.Message{
		ID:        ulid.Make().String(),
		Text:      text,
		Timestamp: time.Now(),
	}
	target := c.store.Append(userMsg)
	metrics.Messages.WithLabelValues("user").Inc()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.loading.Store(false)
		defer func() {
			// The loading flag must clear no matter how the turn ends.
			if r := recover(); r != nil {
				c.logger.Error().Interface("panic", r).Msg("chat turn panicked")
			}
		}()
		c.finish(target, text)
	}()
	return target, nil
}

// finish completes a turn: it asks the answering service and appends the
// bot message to the captured conversation. A stale answer arriving
// after the user navigated away is appended silently; there is no
// cancellation of in-flight requests. The request context is
// deliberately not tied to the submitting HTTP request.
func (c *Controller) finish(target int, question string) {
	msg := models.Message{
		ID:    ulid.Make().String(),
		IsBot: true,
	}

	ans, err := c.client.Ask(context.Background(), question)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Int("conversation", target).
			Msg("answer request failed")
		msg.Text = Fallback
	} else {
		msg.Text = ans.Text
		msg.References = ans.References
	}
	msg.Timestamp = time.Now()

	c.store.AppendTo(target, msg)
	metrics.Messages.WithLabelValues("bot").Inc()

	c.logger.Debug().
		Int("conversation", target).
		Bool("failed", err != nil).
		Msg("chat turn completed")
}
