// Package chat runs the document-scoped conversation.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/logger"
	"github.com/thywilljoshua/pdf-reader/internal/prompt"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

type Engine struct {
	llm    ai.Completer
	sess   *session.Session
	log    *logger.Logger
	flight session.Flight
}

func New(llm ai.Completer, sess *session.Session, log *logger.Logger) *Engine {
	return &Engine{
		llm:  llm,
		sess: sess,
		log:  logger.OrNop(log).With("component", "chat", "session_id", sess.ID),
	}
}

// State reports whether a turn is in flight.
func (e *Engine) State() session.FlightState { return e.flight.State() }

// Send runs one turn: it asks the model about text, grounded on the loaded
// document, the current questions and prior turns. The exchange is recorded
// only when the call succeeds. Blank text fails with session.ErrEmptyInput
// before anything else is checked.
func (e *Engine) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", session.ErrEmptyInput
	}
	if err := e.flight.Begin(); err != nil {
		return "", err
	}
	defer e.flight.End()

	st := e.sess.Snapshot()
	msgs, err := prompt.Chat(prompt.ChatInput{
		ReaderName: e.sess.ReaderName(),
		Document:   st.Document,
		Questions:  st.Questions,
		History:    st.History,
		Message:    text,
	})
	if err != nil {
		return "", err
	}

	start := time.Now()
	reply, err := e.llm.Complete(ctx, msgs, ai.ChatMaxTokens)
	if err != nil {
		e.log.Warn("chat turn failed",
			"error", err,
			"history_len", len(st.History),
			"latency", time.Since(start),
		)
		return "", err
	}

	n, err := e.sess.AppendTurn(st.Epoch, text, reply)
	if err != nil {
		e.log.Info("discarding reply for replaced document")
		return "", err
	}
	e.log.Info("chat turn",
		"messages", len(msgs),
		"prompt_tokens_est", prompt.EstimateMessages(msgs),
		"history_len", n,
		"latency", time.Since(start),
	)
	return reply, nil
}

// ErrorText renders a failed turn the way it is shown in the conversation.
func ErrorText(err error) string {
	return "Error: " + ai.Describe(err) + ". Please check your API key and try again."
}
