// Package session holds the state of one reading session: the loaded
// document, its generated questions and the conversation about it.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/extract"
)

const (
	// MaxHistory bounds the conversation to the last 10 exchanges.
	MaxHistory = 20
	// MaxQuestions caps a generated QuestionSet.
	MaxQuestions = 40
)

var (
	ErrNoDocument    = errors.New("no document loaded")
	ErrEmptyInput    = errors.New("message is empty")
	ErrBusy          = errors.New("a request is already in progress")
	ErrStaleDocument = errors.New("document was replaced while the request was in flight")
)

// QAItem is one generated exam question with its answer.
type QAItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionSet is indexed 1..N when shown to the reader.
type QuestionSet []QAItem

// State is a copy of the session at one point in time.
type State struct {
	Epoch     uint64
	Document  *extract.Document
	Questions QuestionSet
	History   []ai.Message
}

type Session struct {
	ID string

	mu         sync.RWMutex
	readerName string
	epoch      uint64
	doc        *extract.Document
	questions  QuestionSet
	history    []ai.Message
}

func New(readerName string) *Session {
	return &Session{ID: uuid.NewString(), readerName: readerName}
}

func (s *Session) ReaderName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readerName
}

// Load replaces the document and clears questions and history in one step.
// Results computed against the previous document are rejected afterwards.
func (s *Session) Load(doc extract.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.doc = &doc
	s.questions = nil
	s.history = nil
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Epoch:     s.epoch,
		Questions: append(QuestionSet(nil), s.questions...),
		History:   append([]ai.Message(nil), s.history...),
	}
	if s.doc != nil {
		d := *s.doc
		st.Document = &d
	}
	return st
}

// SetQuestions replaces the QuestionSet wholesale.
func (s *Session) SetQuestions(epoch uint64, qs QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return ErrStaleDocument
	}
	if len(qs) > MaxQuestions {
		qs = qs[:MaxQuestions]
	}
	s.questions = append(QuestionSet(nil), qs...)
	return nil
}

// AppendTurn records a completed exchange and returns the history length.
func (s *Session) AppendTurn(epoch uint64, user, assistant string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return len(s.history), ErrStaleDocument
	}
	s.history = TrimHistory(append(s.history, ai.User(user), ai.Assistant(assistant)), MaxHistory)
	return len(s.history), nil
}

// TrimHistory keeps the most recent limit messages, preserving order. The
// result never shares a backing array with a longer input.
func TrimHistory(history []ai.Message, limit int) []ai.Message {
	if limit <= 0 {
		return nil
	}
	if len(history) <= limit {
		return history
	}
	return append([]ai.Message(nil), history[len(history)-limit:]...)
}
