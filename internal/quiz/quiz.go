// Package quiz generates the exam-style QuestionSet for the loaded document.
package quiz

import (
	"context"
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
		log:  logger.OrNop(log).With("component", "quiz", "session_id", sess.ID),
	}
}

// State reports whether a generation is in flight.
func (e *Engine) State() session.FlightState { return e.flight.State() }

// Generate asks the model for a fresh QuestionSet and stores it on the
// session, replacing the previous one. Only one generation runs at a time;
// a concurrent call returns session.ErrBusy. If the document is replaced
// while the call is in flight the result is dropped with
// session.ErrStaleDocument.
func (e *Engine) Generate(ctx context.Context) (session.QuestionSet, error) {
	if err := e.flight.Begin(); err != nil {
		return nil, err
	}
	defer e.flight.End()

	st := e.sess.Snapshot()
	msgs, err := prompt.Generation(st.Document)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	e.log.Info("generating questions",
		"document", st.Document.Name,
		"max_tokens", ai.GenerationMaxTokens,
		"prompt_tokens_est", prompt.EstimateMessages(msgs),
	)
	raw, err := e.llm.Complete(ctx, msgs, ai.GenerationMaxTokens)
	if err != nil {
		e.log.Warn("question generation failed", "error", err, "latency", time.Since(start))
		return nil, err
	}

	qs, err := Parse(raw)
	if err != nil {
		e.log.Warn("could not parse questions", "error", err, "response_chars", len(raw))
		return nil, err
	}
	if err := e.sess.SetQuestions(st.Epoch, qs); err != nil {
		e.log.Info("discarding questions for replaced document", "document", st.Document.Name)
		return nil, err
	}
	e.log.Info("questions generated", "count", len(qs), "latency", time.Since(start))
	return qs, nil
}
