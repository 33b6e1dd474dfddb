package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/chat"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

// QuestionGenerator is the TUI-facing side of the question engine.
type QuestionGenerator interface {
	Generate(ctx context.Context) (session.QuestionSet, error)
}

// ChatSender is the TUI-facing side of the conversation engine.
type ChatSender interface {
	Send(ctx context.Context, text string) (string, error)
}

type speaker int

const (
	fromBot speaker = iota
	fromReader
)

type line struct {
	who  speaker
	text string
}

type questionsMsg struct {
	qs  session.QuestionSet
	err error
}

type replyMsg struct {
	text string
	err  error
}

// Model is the Bubble Tea model for the reading assistant.
type Model struct {
	ctx       context.Context
	questions QuestionGenerator
	chat      ChatSender

	docName string
	initial string

	input    textinput.Model
	viewport viewport.Model

	qs         session.QuestionSet
	cursor     int
	shown      []bool
	generating bool
	genErr     string

	transcript []line
	sending    bool
	status     string
	ready      bool
}

// New creates the model for a document that has already been loaded into the
// session. Question generation starts as soon as the program runs.
func New(ctx context.Context, questions QuestionGenerator, sender ChatSender, docName, readerInitial string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:        ctx,
		questions:  questions,
		chat:       sender,
		docName:    docName,
		initial:    readerInitial,
		input:      ti,
		viewport:   vp,
		generating: true,
		transcript: []line{{who: fromBot, text: loadedMessage(docName)}},
		status:     "Generating questions...",
	}
}

func loadedMessage(name string) string {
	return fmt.Sprintf("PDF loaded! I've read %q. Ask me anything about it.", name)
}

// Init starts question generation and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.generateCmd())
}

func (m Model) generateCmd() tea.Cmd {
	gen, ctx := m.questions, m.ctx
	return func() tea.Msg {
		qs, err := gen.Generate(ctx)
		return questionsMsg{qs: qs, err: err}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	sender, ctx := m.chat, m.ctx
	return func() tea.Msg {
		reply, err := sender.Send(ctx, text)
		return replyMsg{text: reply, err: err}
	}
}

// Update handles key, window and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + questionsHeight + ih + 1 + 1 // header, questions, input, spacer, status
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-ch)
		m.refreshTranscript()
		return m, nil

	case questionsMsg:
		m.generating = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrBusy) {
				return m, nil
			}
			m.genErr = "Failed to generate questions: " + ai.Describe(msg.err)
			m.status = "Press ctrl+r to try again."
			return m, nil
		}
		m.genErr = ""
		m.qs = msg.qs
		m.cursor = 0
		m.shown = make([]bool, len(msg.qs))
		m.status = fmt.Sprintf("%d questions ready.", len(msg.qs))
		return m, nil

	case replyMsg:
		m.sending = false
		m.input.Focus()
		switch {
		case msg.err == nil:
			m.transcript = append(m.transcript, line{who: fromBot, text: msg.text})
			m.status = ""
		case errors.Is(msg.err, session.ErrEmptyInput), errors.Is(msg.err, session.ErrBusy):
			m.status = msg.err.Error()
		default:
			m.transcript = append(m.transcript, line{who: fromBot, text: chat.ErrorText(msg.err)})
			m.status = ""
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.sending {
				return m, nil
			}
			m.sending = true
			m.input.SetValue("")
			m.input.Blur()
			m.transcript = append(m.transcript, line{who: fromReader, text: text})
			m.status = "Thinking..."
			m.refreshTranscript()
			return m, m.sendCmd(text)
		case "ctrl+r":
			if m.generating {
				return m, nil
			}
			m.generating = true
			m.genErr = ""
			m.status = "Generating questions..."
			return m, m.generateCmd()
		case "ctrl+n":
			if len(m.qs) > 0 {
				m.cursor = (m.cursor + 1) % len(m.qs)
			}
			return m, nil
		case "ctrl+p":
			if len(m.qs) > 0 {
				m.cursor = (m.cursor - 1 + len(m.qs)) % len(m.qs)
			}
			return m, nil
		case "ctrl+o":
			if len(m.qs) > 0 {
				shown := append([]bool(nil), m.shown...)
				shown[m.cursor] = !shown[m.cursor]
				m.shown = shown
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	if m.sending {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders header, questions panel, chat transcript and input.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("PDF Reader") + "  " +
		mutedStyle.Render(displayName(m.docName)) + "  " +
		avatarStyle.Render(m.initial)
	questions := questionsBoxStyle.Width(m.viewport.Width).Render(m.renderQuestion())
	transcript := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Width(m.viewport.Width).Render(m.input.View())
	help := mutedStyle.Render("enter send · ctrl+n/p question · ctrl+o answer · ctrl+r new questions · ctrl+c quit")
	status := statusStyle.Render(m.status)
	return header + "\n" + questions + "\n" + transcript + "\n" + input + "\n" + status + "  " + help
}

func (m Model) renderQuestion() string {
	switch {
	case m.generating:
		return "Generating exam questions..."
	case m.genErr != "":
		return errorStyle.Render(m.genErr) + "\n" + mutedStyle.Render("Press ctrl+r to try again.")
	case len(m.qs) == 0:
		return mutedStyle.Render("No questions yet. Press ctrl+r to generate.")
	}
	q := m.qs[m.cursor]
	var b strings.Builder
	b.WriteString(questionNumStyle.Render(fmt.Sprintf("Q%d/%d", m.cursor+1, len(m.qs))))
	b.WriteString(" ")
	b.WriteString(q.Question)
	b.WriteString("\n")
	if m.shown[m.cursor] {
		b.WriteString(clip(q.Answer, questionsHeight-2, m.viewport.Width))
	} else {
		b.WriteString(mutedStyle.Render("[ctrl+o] View Answer"))
	}
	return b.String()
}

func (m Model) renderTranscript() string {
	width := max(10, m.viewport.Width-2)
	parts := make([]string, 0, len(m.transcript))
	for _, l := range m.transcript {
		who, text := botStyle.Render("Assistant"), renderMarkdown(l.text)
		if l.who == fromReader {
			who, text = readerStyle.Render("You"), l.text
		}
		parts = append(parts, who+"\n"+lipgloss.NewStyle().Width(width).Render(text))
	}
	if m.sending {
		parts = append(parts, botStyle.Render("Assistant")+"\n"+mutedStyle.Render("..."))
	}
	return strings.Join(parts, "\n\n")
}

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.*?)\*`)
)

// renderMarkdown styles the **bold** and *italic* spans models put in replies.
// Bold is matched first so its markers are not read as two italics.
func renderMarkdown(s string) string {
	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		return strongStyle.Render(boldRe.FindStringSubmatch(m)[1])
	})
	return italicRe.ReplaceAllStringFunc(s, func(m string) string {
		return emStyle.Render(italicRe.FindStringSubmatch(m)[1])
	})
}

// displayName shortens long file names to 28 characters plus an ellipsis.
func displayName(name string) string {
	if utf8.RuneCountInString(name) <= 30 {
		return name
	}
	return string([]rune(name)[:28]) + "…"
}

// clip wraps s to width and keeps at most n lines.
func clip(s string, n, width int) string {
	wrapped := lipgloss.NewStyle().Width(max(10, width-4)).Render(s)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > n {
		lines = append(lines[:n-1], mutedStyle.Render("..."))
	}
	return strings.Join(lines, "\n")
}

const questionsHeight = 8

var (
	titleStyle        = lipgloss.NewStyle().Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	avatarStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	questionNumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	botStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	readerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	strongStyle       = lipgloss.NewStyle().Bold(true)
	emStyle           = lipgloss.NewStyle().Italic(true)
	questionsBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Height(questionsHeight)
	chatBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
