// Package shared holds the small cross-cutting types passed between the
// generative collaborators and the metrics store.
package shared

import "time"

// TokenUsage is the token accounting for one collaborator call, as reported
// by the backing model API. All counts are zero when the backend does not
// report usage.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta describes a single collaborator execution: which agent ran, what
// it consumed and how long the call took end to end.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
