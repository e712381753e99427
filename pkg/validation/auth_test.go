package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
)

func TestValidateSignup(t *testing.T) {
	v := NewAuthRequestValidator()

	tests := []struct {
		name     string
		inName   string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "Ada Lovelace", "ada@example.com", "password123", false},
		{"name at minimum", "Al", "al@example.com", "password123", false},
		{"name at maximum", strings.Repeat("n", 50), "n@example.com", "password123", false},
		{"unicode name counts runes", strings.Repeat("ñ", 50), "n@example.com", "password123", false},
		{"name too short", "A", "a@example.com", "password123", true},
		{"name too long", strings.Repeat("n", 51), "n@example.com", "password123", true},
		{"name whitespace only", "   ", "a@example.com", "password123", true},
		{"missing email", "Ada", "", "password123", true},
		{"malformed email", "Ada", "not-an-email", "password123", true},
		{"password too short", "Ada", "ada@example.com", "short12", true},
		{"password at bcrypt limit", "Ada", "ada@example.com", strings.Repeat("p", 72), false},
		{"password over bcrypt limit", "Ada", "ada@example.com", strings.Repeat("p", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSignup(tt.inName, tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSignup_TrimsBeforeChecking(t *testing.T) {
	v := NewAuthRequestValidator()

	// Padding must not rescue an undersized name
	err := v.ValidateSignup("  A  ", "a@example.com", "password123")
	require.Error(t, err)

	require.NoError(t, v.ValidateSignup("  Ada  ", "  ADA@Example.com  ", "password123"))
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthRequestValidator()

	require.NoError(t, v.ValidateLogin("ada@example.com", "anything"))
	require.Error(t, v.ValidateLogin("", "anything"))
	require.Error(t, v.ValidateLogin("ada@example.com", ""))
	require.Error(t, v.ValidateLogin("not-an-email", "anything"))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "ada@example.com", NormalizeEmail("  ADA@Example.COM "))
	require.Equal(t, "ada@example.com", NormalizeEmail("ada@example.com"))
}
