package llm

// Role identifies the author of a chat message.
type Role string

const (
	// RoleSystem carries instructions that frame the whole exchange.
	RoleSystem Role = "system"
	// RoleUser carries caller-supplied content.
	RoleUser Role = "user"
	// RoleAssistant carries prior model output.
	RoleAssistant Role = "assistant"
)

// Message is a single chat message sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// UserMessage is a convenience constructor for a single user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// CompletionRequest is the provider-neutral shape of one completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Completion is the provider-neutral result of one completion call.
// Token counts come from the provider's own usage accounting.
type Completion struct {
	Content   string
	TokensIn  int
	TokensOut int
}

// Result is the outcome of a routed call: the completion plus the
// routing and accounting facts the caller may need to render.
type Result struct {
	Content   string
	Provider  string
	Model     string
	TokensIn  int
	TokensOut int
	Cost      float64
}

// Well-known task types. Unknown task types route as TaskChat.
const (
	TaskChat       = "chat"
	TaskHypothesis = "hypothesis"
	TaskRerank     = "rerank"
	TaskAnalysis   = "analysis"
	TaskSummary    = "summary"
)
