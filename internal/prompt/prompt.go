// Package prompt assembles the message lists sent to the model for question
// generation and for chat. Assembly does no I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/extract"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

// defaultReader addresses the reader when no profile name is known.
const defaultReader = "the reader"

const generationTemplate = `You are a professional exam setter and subject-matter expert. Your task is to generate 40 high-quality, exam-ready questions from the document below.

STRICT RULES:
1. IGNORE all introductory sections, prefaces, forewords, table of contents, acknowledgements, and any "how to use this book" or instruction pages. Focus ONLY on the substantive subject content.
2. Questions must test DEEP understanding of the core concepts, theories, principles, definitions, processes, and applications covered in the main body of the document.
3. Use a variety of exam-style question types:
   - Definition questions ("Define...", "What is meant by...")
   - Explanation questions ("Explain...", "Describe how...")
   - Application questions ("How would...", "Give an example of...")
   - Analysis/evaluation questions ("Why is...", "What are the implications of...", "Compare and contrast...")
   - Cause-and-effect questions ("What causes...", "What are the effects of...")
4. Do NOT ask trivial questions about page numbers, authors, or document structure.
5. Every answer MUST be based strictly and directly on the content of the document — do not use outside knowledge.
6. Each answer must be DETAILED and COMPREHENSIVE — not just a one-liner. Structure each answer with:
   - A clear direct answer to the question
   - Supporting explanation using specific details, examples, or evidence from the document
   - Any relevant sub-points, causes, effects, or implications mentioned in the document
   Aim for 4–8 sentences per answer, or more if the concept warrants it.

Return ONLY a valid JSON array of exactly 40 objects, each with:
- "question": the exam-style question
- "answer": the answer derived strictly from the document

Document Content:
"""
%s
"""

IMPORTANT: Return ONLY the raw JSON array. No markdown, no code fences, no explanation. Start immediately with [ and end with ].`

const chatTemplate = `You are a helpful reading assistant for %s. You ONLY answer questions based on the following document content. If the question cannot be answered from the document, politely say so and do NOT use outside knowledge.

Document content:
"""
%s
"""`

const questionsTemplate = "\n\nThe following %d exam questions have been generated from this document. " +
	`If %s refers to a question by number (e.g. "explain question 5", "elaborate on Q3", "what does question 12 mean"), ` +
	"identify the correct question from this list and give a thorough, detailed explanation based strictly on the document content:\n\n%s"

// Generation builds the single user message that asks for the QuestionSet.
func Generation(doc *extract.Document) ([]ai.Message, error) {
	if doc == nil {
		return nil, session.ErrNoDocument
	}
	return []ai.Message{ai.User(fmt.Sprintf(generationTemplate, doc.Text))}, nil
}

// ChatInput is everything a chat turn is grounded on.
type ChatInput struct {
	ReaderName string
	Document   *extract.Document
	Questions  session.QuestionSet
	History    []ai.Message
	Message    string
}

// Chat builds system message, prior history and the new user message, in
// that order. The question list is appended to the system message only when
// questions exist.
func Chat(in ChatInput) ([]ai.Message, error) {
	if in.Document == nil {
		return nil, session.ErrNoDocument
	}
	name := strings.TrimSpace(in.ReaderName)
	if name == "" {
		name = defaultReader
	}

	system := fmt.Sprintf(chatTemplate, name, in.Document.Text)
	if len(in.Questions) > 0 {
		system += fmt.Sprintf(questionsTemplate, len(in.Questions), name, QuestionList(in.Questions))
	}

	msgs := make([]ai.Message, 0, len(in.History)+2)
	msgs = append(msgs, ai.System(system))
	msgs = append(msgs, in.History...)
	msgs = append(msgs, ai.User(in.Message))
	return msgs, nil
}

// QuestionList renders "Q<i>: <question>" lines, numbered from 1.
func QuestionList(qs session.QuestionSet) string {
	lines := make([]string, len(qs))
	for i, q := range qs {
		lines[i] = fmt.Sprintf("Q%d: %s", i+1, q.Question)
	}
	return strings.Join(lines, "\n")
}
