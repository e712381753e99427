package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
)

var validate = validator.New()

// signupInput mirrors the signup payload with the account rules attached.
// min/max on strings count runes, matching the display-name bounds.
type signupInput struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthRequestValidator validates authentication-related requests
type AuthRequestValidator struct{}

// NewAuthRequestValidator creates a new AuthRequestValidator
func NewAuthRequestValidator() *AuthRequestValidator {
	return &AuthRequestValidator{}
}

// ValidateSignup checks name, email, and password against the account rules.
// Inputs are validated after trimming, the same normalization the credential
// store applies before persisting.
func (v *AuthRequestValidator) ValidateSignup(name, email, password string) error {
	input := signupInput{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Password: password,
	}

	if err := validate.Struct(input); err != nil {
		return signupValidationError(err)
	}
	return nil
}

// ValidateLogin checks that both credentials are present and the email is
// shaped like an email. It says nothing about whether the account exists.
func (v *AuthRequestValidator) ValidateLogin(email, password string) error {
	input := loginInput{
		Email:    NormalizeEmail(email),
		Password: password,
	}

	if err := validate.Struct(input); err != nil {
		return apperrors.Validation("email and password are required")
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func signupValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Validation("invalid signup request")
	}

	switch fe := fieldErrs[0]; fe.Field() {
	case "Name":
		return apperrors.Validation("name must be between 2 and 50 characters")
	case "Email":
		return apperrors.Validation("a valid email address is required")
	case "Password":
		return apperrors.Validation("password must be between 8 and 72 characters")
	default:
		return apperrors.Validation("invalid signup request")
	}
}
