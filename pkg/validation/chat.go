package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
)

// Content and title bounds. Inputs exceeding them are rejected, never
// truncated.
const (
	MaxMessageLength = 5000
	MaxTitleLength   = 100
	MaxPageSize      = 100
)

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateMessage trims the content and checks the length bounds, returning
// the trimmed content on success.
func (v *ChatRequestValidator) ValidateMessage(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperrors.Validation("message cannot be empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxMessageLength {
		return "", apperrors.Validation("message must be at most %d characters, got %d", MaxMessageLength, n)
	}
	return trimmed, nil
}

// ValidateTitle trims the title and checks the length bounds, returning the
// trimmed title on success.
func (v *ChatRequestValidator) ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", apperrors.Validation("title cannot be empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxTitleLength {
		return "", apperrors.Validation("title must be at most %d characters, got %d", MaxTitleLength, n)
	}
	return trimmed, nil
}

// ValidatePage normalizes pagination parameters. Page defaults to 1 and
// pageSize to defaultSize; a pageSize above MaxPageSize is an error rather
// than a silent clamp.
func (v *ChatRequestValidator) ValidatePage(page, pageSize, defaultSize int) (int, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		return 0, 0, apperrors.Validation("limit must be at most %d, got %d", MaxPageSize, pageSize)
	}
	return page, pageSize, nil
}
