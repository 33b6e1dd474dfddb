package ai

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation. Order is turn order.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

const (
	DefaultMaxTokens    = 2048
	ChatMaxTokens       = 1024
	GenerationMaxTokens = 8192
	DefaultTemperature  = 0.5
)

// Completer sends one blocking request to a chat-completion service and
// returns the trimmed text of the first choice. Exactly one request is made
// per call; failures are *AuthError, *APIError or *NetworkError.
type Completer interface {
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

func System(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message      { return Message{Role: RoleUser, Content: content} }
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }
