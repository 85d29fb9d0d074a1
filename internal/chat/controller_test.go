package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Vishal25102002/planify/internal/answer"
	"github.com/Vishal25102002/planify/internal/models"
	"github.com/Vishal25102002/planify/internal/store"
)

// fakeAsker returns a canned answer or error, optionally blocking until
// released so tests can observe the in-flight state.
type fakeAsker struct {
	answer  *answer.Answer
	err     error
	release chan struct{}
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (*answer.Answer, error) {
	if f.release != nil {
		<-f.release
	}
	return f.answer, f.err
}

func newController(t *testing.T, asker Asker) (*Controller, *store.ConversationStore) {
	t.Helper()
	st := store.New()
	return NewController(st, asker, zerolog.Nop()), st
}

func TestSubmitRejectsWhitespace(t *testing.T) {
	c, st := newController(t, &fakeAsker{})

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := c.Submit(text); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("Submit(%q): expected ErrEmptyMessage, got %v", text, err)
		}
	}

	if conversations, messages := st.Counts(); conversations != 0 || messages != 0 {
		t.Fatalf("whitespace submit mutated the store: %d conversations, %d messages", conversations, messages)
	}
	if c.Loading() {
		t.Fatal("loading flag set after rejected submit")
	}
}

func TestSubmitSuccess(t *testing.T) {
	asker := &fakeAsker{answer: &answer.Answer{
		Text: "We open at 9am.",
		References: []models.Reference{
			{Content: "Opening hours: 9-5", Page: 3, Score: "91.0%"},
		},
	}}
	c, st := newController(t, asker)

	if _, err := c.Submit("What are the opening hours?"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	conv, ok := st.Active()
	if !ok {
		t.Fatal("no active conversation after submit")
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}

	user, bot := conv.Messages[0], conv.Messages[1]
	if user.IsBot || user.Text != "What are the opening hours?" {
		t.Fatalf("unexpected user message: %+v", user)
	}
	if !bot.IsBot || bot.Text != "We open at 9am." {
		t.Fatalf("unexpected bot message: %+v", bot)
	}
	if len(bot.References) != 1 || bot.References[0].Page != 3 {
		t.Fatalf("references not carried through: %+v", bot.References)
	}
	if user.ID == bot.ID {
		t.Fatal("message IDs collide")
	}
	if c.Loading() {
		t.Fatal("loading flag still set after turn completed")
	}
}

func TestSubmitFailureAppendsFallback(t *testing.T) {
	c, st := newController(t, &fakeAsker{err: answer.ErrUnavailable})

	if _, err := c.Submit("What are the opening hours?"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	conv, _ := st.Active()
	if len(conv.Messages) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(conv.Messages))
	}

	bot := conv.Messages[1]
	if !bot.IsBot {
		t.Fatal("second message is not from the bot")
	}
	if bot.Text != Fallback {
		t.Fatalf("expected fallback text, got %q", bot.Text)
	}
	if bot.References != nil {
		t.Fatalf("fallback message carries references: %+v", bot.References)
	}
	if c.Loading() {
		t.Fatal("loading flag still set after failed turn")
	}
}

func TestSubmitWhileLoadingIsRejected(t *testing.T) {
	asker := &fakeAsker{answer: &answer.Answer{Text: "ok"}, release: make(chan struct{})}
	c, st := newController(t, asker)

	if _, err := c.Submit("first"); err != nil {
		t.Fatal(err)
	}
	if !c.Loading() {
		t.Fatal("loading flag not set while turn in flight")
	}

	if _, err := c.Submit("second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(asker.release)
	c.Wait()

	conv, _ := st.Active()
	if len(conv.Messages) != 2 {
		t.Fatalf("rejected submit left a trace: %d messages", len(conv.Messages))
	}
}

func TestAnswerLandsInOriginalConversation(t *testing.T) {
	asker := &fakeAsker{answer: &answer.Answer{Text: "late answer"}, release: make(chan struct{})}
	c, st := newController(t, asker)

	original := st.Create()
	target, err := c.Submit("question")
	if err != nil {
		t.Fatal(err)
	}
	if target != original.ID {
		t.Fatalf("Submit returned target %d, want %d", target, original.ID)
	}

	// User switches to a brand new conversation while the request is in
	// flight. The answer must not follow them.
	other := st.Create()

	close(asker.release)
	c.Wait()

	origConv, _ := st.Get(original.ID)
	if len(origConv.Messages) != 2 {
		t.Fatalf("expected 2 messages in original conversation, got %d", len(origConv.Messages))
	}
	if origConv.Messages[1].Text != "late answer" {
		t.Fatalf("unexpected bot text %q", origConv.Messages[1].Text)
	}

	otherConv, _ := st.Get(other.ID)
	if len(otherConv.Messages) != 0 {
		t.Fatalf("answer leaked into the newly selected conversation: %d messages", len(otherConv.Messages))
	}
}

func TestSubmitBootstrapsConversation(t *testing.T) {
	c, st := newController(t, &fakeAsker{answer: &answer.Answer{Text: "hello"}})

	// No conversation has been created yet; the submit must not lose
	// the message.
	target, err := c.Submit("where is the town hall")
	if err != nil {
		t.Fatal(err)
	}
	if target != 1 {
		t.Fatalf("Submit returned target %d, want 1", target)
	}
	c.Wait()

	conv, ok := st.Get(1)
	if !ok {
		t.Fatal("conversation 1 was not bootstrapped")
	}
	if conv.Title != "where is the town hall" {
		t.Fatalf("unexpected title %q", conv.Title)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
}
