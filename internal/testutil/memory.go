package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

// MemoryDB is an in-memory db.Database with the same ownership, soft-delete,
// and ordering semantics as the Postgres implementation. It backs the
// service and handler scenario tests.
type MemoryDB struct {
	mu     sync.Mutex
	users  []*db.User
	convs  []*db.Conversation
	msgs   map[string][]db.Message
	msgSeq int64
}

var _ db.Database = (*MemoryDB)(nil)

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{msgs: map[string][]db.Message{}}
}

func (m *MemoryDB) CreateUser(name, email, passwordHash string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return nil, apperrors.Duplicate("email already registered")
		}
	}

	now := time.Now()
	user := &db.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users = append(m.users, user)

	copied := *user
	return &copied, nil
}

func (m *MemoryDB) GetUserByEmail(email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *MemoryDB) GetUserByID(id string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *MemoryDB) CreateConversation(userID, title string) (*db.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	conv := &db.Conversation{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         title,
		IsActive:      true,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.convs = append(m.convs, conv)

	copied := *conv
	return &copied, nil
}

func (m *MemoryDB) GetConversation(id, userID string) (*db.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findConv(id)
	if conv == nil || conv.UserID != userID || !conv.IsActive {
		return nil, apperrors.NotFound("conversation not found")
	}

	copied := *conv
	return &copied, nil
}

func (m *MemoryDB) ListConversations(userID string, page db.Page) ([]db.Conversation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active []db.Conversation
	for _, c := range m.convs {
		if c.UserID == userID && c.IsActive {
			active = append(active, *c)
		}
	}

	// Stable sort keeps insertion order on last-activity ties
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].LastMessageAt.After(active[j].LastMessageAt)
	})

	total := len(active)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}

	return active[start:end], total, nil
}

func (m *MemoryDB) SetConversationInactive(id, userID string) (*db.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findConv(id)
	if conv == nil || conv.UserID != userID {
		return nil, apperrors.NotFound("conversation not found")
	}

	conv.IsActive = false
	conv.UpdatedAt = time.Now()

	copied := *conv
	return &copied, nil
}

func (m *MemoryDB) UpdateConversationTitle(id, userID, title string) (*db.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findConv(id)
	if conv == nil || conv.UserID != userID || !conv.IsActive {
		return nil, apperrors.NotFound("conversation not found")
	}

	conv.Title = title
	conv.UpdatedAt = time.Now()

	copied := *conv
	return &copied, nil
}

func (m *MemoryDB) AddMessage(conversationID, role, content string) (*db.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.msgSeq++
	msg := db.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Seq:            m.msgSeq,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	m.msgs[conversationID] = append(m.msgs[conversationID], msg)

	if conv := m.findConv(conversationID); conv != nil {
		conv.LastMessageAt = msg.CreatedAt
		conv.UpdatedAt = time.Now()
	}

	return &msg, nil
}

func (m *MemoryDB) GetRecentMessages(conversationID string, limit int) ([]db.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.msgs[conversationID]

	// Newest first, like the SQL implementation
	var out []db.Message
	for i := len(log) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, log[i])
	}
	return out, nil
}

func (m *MemoryDB) CountMessages(conversationID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs[conversationID]), nil
}

func (m *MemoryDB) Close() error { return nil }

func (m *MemoryDB) findConv(id string) *db.Conversation {
	for _, c := range m.convs {
		if c.ID == id {
			return c
		}
	}
	return nil
}
