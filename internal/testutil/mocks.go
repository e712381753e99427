package testutil

import (
	"context"
	"errors"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/llm"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// User mocks
	CreateUserFunc     func(name, email, passwordHash string) (*db.User, error)
	GetUserByEmailFunc func(email string) (*db.User, error)
	GetUserByIDFunc    func(id string) (*db.User, error)

	// Conversation mocks
	CreateConversationFunc      func(userID, title string) (*db.Conversation, error)
	GetConversationFunc         func(id, userID string) (*db.Conversation, error)
	ListConversationsFunc       func(userID string, page db.Page) ([]db.Conversation, int, error)
	SetConversationInactiveFunc func(id, userID string) (*db.Conversation, error)
	UpdateConversationTitleFunc func(id, userID, title string) (*db.Conversation, error)

	// Message mocks
	AddMessageFunc        func(conversationID, role, content string) (*db.Message, error)
	GetRecentMessagesFunc func(conversationID string, limit int) ([]db.Message, error)
	CountMessagesFunc     func(conversationID string) (int, error)
}

var _ db.Database = (*MockDatabase)(nil)

func (m *MockDatabase) CreateUser(name, email, passwordHash string) (*db.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(name, email, passwordHash)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetUserByID(id string) (*db.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) CreateConversation(userID, title string) (*db.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(userID, title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversation(id, userID string) (*db.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(id, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) ListConversations(userID string, page db.Page) ([]db.Conversation, int, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(userID, page)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *MockDatabase) SetConversationInactive(id, userID string) (*db.Conversation, error) {
	if m.SetConversationInactiveFunc != nil {
		return m.SetConversationInactiveFunc(id, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) UpdateConversationTitle(id, userID, title string) (*db.Conversation, error) {
	if m.UpdateConversationTitleFunc != nil {
		return m.UpdateConversationTitleFunc(id, userID, title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) AddMessage(conversationID, role, content string) (*db.Message, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(conversationID, role, content)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetRecentMessages(conversationID string, limit int) ([]db.Message, error) {
	if m.GetRecentMessagesFunc != nil {
		return m.GetRecentMessagesFunc(conversationID, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) CountMessages(conversationID string) (int, error) {
	if m.CountMessagesFunc != nil {
		return m.CountMessagesFunc(conversationID)
	}
	return 0, errors.New("not implemented")
}

func (m *MockDatabase) Close() error { return nil }

// MockGateway is a mock implementation of llm.Gateway for testing
type MockGateway struct {
	GenerateFunc func(ctx context.Context, prompt string, history []llm.Message) llm.Result
}

var _ llm.Gateway = (*MockGateway)(nil)

func (m *MockGateway) Generate(ctx context.Context, prompt string, history []llm.Message) llm.Result {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, history)
	}
	return llm.Result{Success: true, Content: "mock reply"}
}
