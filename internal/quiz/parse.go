package quiz

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

// ParseError reports model output that holds no usable question array.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string { return e.Reason }

func (e *ParseError) Unwrap() error { return e.Err }

const parseFailure = "Could not parse questions from the model response."

// Parse reads a QuestionSet from raw model output. The whole response is
// tried first with code fences removed; failing that, the outermost [...]
// span. At most session.MaxQuestions items are kept. Items are not checked
// for empty question or answer fields.
func Parse(raw string) (session.QuestionSet, error) {
	qs, strictErr := parseStrict(raw)
	if strictErr != nil {
		var err error
		qs, err = parseBracketed(raw)
		if err != nil {
			return nil, &ParseError{Reason: parseFailure, Err: errors.Join(strictErr, err)}
		}
	}
	if len(qs) > session.MaxQuestions {
		qs = qs[:session.MaxQuestions]
	}
	return qs, nil
}

func parseStrict(raw string) (session.QuestionSet, error) {
	return decode(ai.StripCodeFences(raw))
}

func parseBracketed(raw string) (session.QuestionSet, error) {
	span := ai.FindBracketed(raw)
	if span == "" {
		return nil, errors.New("no bracketed array in response")
	}
	return decode(span)
}

func decode(s string) (session.QuestionSet, error) {
	var qs session.QuestionSet
	if err := json.Unmarshal([]byte(s), &qs); err != nil {
		return nil, fmt.Errorf("decode question array: %w", err)
	}
	if qs == nil {
		return nil, errors.New("decode question array: not an array")
	}
	return qs, nil
}
