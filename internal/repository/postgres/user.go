package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

const uniqueViolation = "23505"

// CreateUser inserts a new user row. The caller passes an already-hashed
// credential; plaintext passwords never reach this layer.
func (p *PostgresDB) CreateUser(name, email, passwordHash string) (*db.User, error) {
	user := &db.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	query := `
	INSERT INTO users (id, name, email, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`

	err := p.conn.QueryRow(query, user.ID, name, email, passwordHash).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.Duplicate("email already registered")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("Created new user")

	return user, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (p *PostgresDB) GetUserByEmail(email string) (*db.User, error) {
	var user db.User
	query := `
	SELECT id, name, email, password_hash, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	err := p.conn.QueryRow(query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by id.
func (p *PostgresDB) GetUserByID(id string) (*db.User, error) {
	var user db.User
	query := `
	SELECT id, name, email, password_hash, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	err := p.conn.QueryRow(query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}
