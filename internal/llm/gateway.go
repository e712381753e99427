// Package llm is the boundary to the upstream text-generation provider.
// Failures never cross this boundary as errors; callers always get a Result
// with a caller-safe fallback so a conversation turn can still complete.
package llm

import "context"

// ErrorReason is a machine-readable category for a failed generation.
type ErrorReason string

const (
	ReasonUnauthenticated     ErrorReason = "unauthenticated"
	ReasonRateLimited         ErrorReason = "rateLimited"
	ReasonUpstreamUnavailable ErrorReason = "upstreamUnavailable"
	ReasonMalformedResponse   ErrorReason = "malformedResponse"
	ReasonTransportError      ErrorReason = "transportError"
)

// FallbackContent is stored as the assistant turn whenever generation fails.
const FallbackContent = "I'm sorry, I'm having trouble generating a response right now. Please try again in a moment."

// Message is one turn of generation context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of one generation call. Content is always safe to
// persist: on failure it holds FallbackContent.
type Result struct {
	Success     bool
	Content     string
	ErrorReason ErrorReason
}

// Gateway produces an assistant reply for a prompt given bounded recent
// history. Implementations must respect ctx and their own timeout; a call
// may fail but never hang.
type Gateway interface {
	Generate(ctx context.Context, prompt string, history []Message) Result
}

func failure(reason ErrorReason) Result {
	return Result{Success: false, Content: FallbackContent, ErrorReason: reason}
}
