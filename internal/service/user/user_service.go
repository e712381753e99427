package user

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
	"github.com/pcrishikesh/ai-chatbot-backend/pkg/validation"
)

// Fixed bcrypt work factor for new credentials.
const hashCost = 12

// Service owns user identity records and password verification.
type Service struct {
	db        db.Database
	validator *validation.AuthRequestValidator
}

// NewService creates a new user Service
func NewService(database db.Database) *Service {
	return &Service{
		db:        database,
		validator: validation.NewAuthRequestValidator(),
	}
}

// Register creates a new identity. The name is stored trimmed, the email
// lower-cased and trimmed, and the password only as a bcrypt hash.
func (s *Service) Register(name, email, password string) (*db.User, error) {
	if err := s.validator.ValidateSignup(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.db.CreateUser(strings.TrimSpace(name), validation.NormalizeEmail(email), string(hash))
	if err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyCredentials looks up the identity by normalized email and compares
// the password against the stored hash. It returns (nil, nil) both when the
// email is unknown and when the password does not match, so callers cannot
// tell the two apart.
func (s *Service) VerifyCredentials(email, password string) (*db.User, error) {
	user, err := s.db.GetUserByEmail(validation.NormalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// bcrypt comparison is constant time
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Log.WithField("user_id", user.ID).Debug("Password mismatch")
			return nil, nil
		}
		return nil, fmt.Errorf("error comparing password: %w", err)
	}

	return user, nil
}

// FindByID retrieves an identity by id.
func (s *Service) FindByID(id string) (*db.User, error) {
	return s.db.GetUserByID(id)
}
