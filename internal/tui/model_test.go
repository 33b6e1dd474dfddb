package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

type stubGenerator struct {
	qs    session.QuestionSet
	err   error
	calls int
}

func (s *stubGenerator) Generate(context.Context) (session.QuestionSet, error) {
	s.calls++
	return s.qs, s.err
}

type stubSender struct {
	reply string
	err   error
	sent  []string
}

func (s *stubSender) Send(_ context.Context, text string) (string, error) {
	s.sent = append(s.sent, text)
	return s.reply, s.err
}

func newModel(gen *stubGenerator, send *stubSender) Model {
	m := New(context.Background(), gen, send, "bio.pdf", "A")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestNew_AcknowledgesLoad(t *testing.T) {
	m := newModel(&stubGenerator{}, &stubSender{})
	if len(m.transcript) != 1 || !strings.Contains(m.transcript[0].text, `PDF loaded! I've read "bio.pdf".`) {
		t.Errorf("unexpected transcript %+v", m.transcript)
	}
	if !m.generating {
		t.Error("question generation should start immediately")
	}
}

func TestQuestionsArrive(t *testing.T) {
	gen := &stubGenerator{qs: session.QuestionSet{{Question: "Q1?", Answer: "A1"}, {Question: "Q2?", Answer: "A2"}}}
	m := newModel(gen, &stubSender{})

	msg := m.generateCmd()()
	m, _ = update(t, m, msg)
	if m.generating || len(m.qs) != 2 {
		t.Fatalf("questions not applied: generating=%v qs=%d", m.generating, len(m.qs))
	}
	if strings.Contains(m.renderQuestion(), "A1") {
		t.Error("answers should be hidden by default")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !strings.Contains(m.renderQuestion(), "A1") {
		t.Error("ctrl+o should reveal the answer")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.cursor != 1 || strings.Contains(m.renderQuestion(), "A2") {
		t.Error("next question should start hidden")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.cursor != 0 {
		t.Errorf("cursor should wrap, got %d", m.cursor)
	}
}

func TestGenerationFailureOffersRetry(t *testing.T) {
	gen := &stubGenerator{err: &ai.APIError{Status: 500, Message: "upstream exploded"}}
	m := newModel(gen, &stubSender{})

	m, _ = update(t, m, m.generateCmd()())
	if !strings.Contains(m.genErr, "upstream exploded") {
		t.Errorf("unexpected error text %q", m.genErr)
	}

	gen.err = nil
	gen.qs = session.QuestionSet{{Question: "Q", Answer: "A"}}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil || !m.generating {
		t.Fatal("ctrl+r should start a new generation")
	}
	m, _ = update(t, m, cmd())
	if m.genErr != "" || len(m.qs) != 1 {
		t.Errorf("retry should replace the error with questions, got %q / %d", m.genErr, len(m.qs))
	}
}

func TestRegenerateIgnoredWhileGenerating(t *testing.T) {
	m := newModel(&stubGenerator{}, &stubSender{})
	if _, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR}); cmd != nil {
		t.Error("ctrl+r should do nothing while a generation is pending")
	}
}

func TestSendFlow(t *testing.T) {
	send := &stubSender{reply: "The mitochondria."}
	m := newModel(&stubGenerator{}, send)

	m.input.SetValue("what powers the cell?")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.sending {
		t.Fatal("enter should start a turn")
	}
	if m.input.Focused() {
		t.Error("input should be disabled during a turn")
	}
	if _, again := update(t, m, tea.KeyMsg{Type: tea.KeyEnter}); again != nil {
		t.Error("a second enter while sending must not start another turn")
	}

	m, _ = update(t, m, cmd())
	if m.sending || !m.input.Focused() {
		t.Error("input should be enabled after the reply")
	}
	if len(send.sent) != 1 || send.sent[0] != "what powers the cell?" {
		t.Errorf("unexpected sends %v", send.sent)
	}
	last := m.transcript[len(m.transcript)-1]
	if last.who != fromBot || last.text != "The mitochondria." {
		t.Errorf("unexpected last line %+v", last)
	}
}

func TestSendFailureShowsError(t *testing.T) {
	send := &stubSender{err: &ai.AuthError{Status: 401, Message: "Invalid API Key"}}
	m := newModel(&stubGenerator{}, send)
	m.input.SetValue("hi")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	last := m.transcript[len(m.transcript)-1].text
	if last != "Error: Invalid API Key. Please check your API key and try again." {
		t.Errorf("unexpected error line %q", last)
	}
}

func TestBlankEnterDoesNothing(t *testing.T) {
	send := &stubSender{}
	m := newModel(&stubGenerator{}, send)
	m.input.SetValue("   ")
	if _, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("blank input should not start a turn")
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName("short.pdf"); got != "short.pdf" {
		t.Errorf("got %q", got)
	}
	exact := strings.Repeat("a", 30)
	if got := displayName(exact); got != exact {
		t.Errorf("30 characters should be kept, got %q", got)
	}
	long := strings.Repeat("b", 40) + ".pdf"
	if got := displayName(long); got != strings.Repeat("b", 28)+"…" {
		t.Errorf("got %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		in    string
		words []string
	}{
		{"**ATP** is the *energy currency*.", []string{"ATP", " is the ", "energy currency", "."}},
		{"Both **bold** and **more bold**", []string{"Both ", "bold", " and ", "more bold"}},
		{"*a* then *b*", []string{"a", " then ", "b"}},
	}
	for _, tt := range tests {
		out := renderMarkdown(tt.in)
		if strings.Contains(out, "*") {
			t.Errorf("%q: markers left in %q", tt.in, out)
		}
		rest := out
		for _, w := range tt.words {
			i := strings.Index(rest, w)
			if i < 0 {
				t.Errorf("%q: missing %q in %q", tt.in, w, out)
				break
			}
			rest = rest[i+len(w):]
		}
	}
	if got := renderMarkdown("2 * 3 = 6"); got != "2 * 3 = 6" {
		t.Errorf("a lone asterisk should be kept, got %q", got)
	}
}

func TestTranscriptRendersReplyMarkdown(t *testing.T) {
	send := &stubSender{reply: "The **mitochondria** make *ATP*."}
	m := newModel(&stubGenerator{}, send)
	m.input.SetValue("what is *this*?")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	out := m.renderTranscript()
	if strings.Contains(out, "**mitochondria**") || strings.Contains(out, "*ATP*") {
		t.Errorf("reply markdown should be rendered:\n%s", out)
	}
	if !strings.Contains(out, "mitochondria") || !strings.Contains(out, "ATP") {
		t.Errorf("reply text missing:\n%s", out)
	}
	if !strings.Contains(out, "what is *this*?") {
		t.Errorf("reader text should be shown as typed:\n%s", out)
	}
}
