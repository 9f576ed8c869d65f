package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

type MockReplyStorage struct {
	failures
	mu      sync.Mutex
	replies map[uint]*models.Reply
	nextID  uint
	calls   map[string]int
}

func NewMockReplyStorage() *MockReplyStorage {
	return &MockReplyStorage{
		replies: make(map[uint]*models.Reply),
		nextID:  1,
		calls:   make(map[string]int),
	}
}

func (m *MockReplyStorage) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockReplyStorage) track(method string) error {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
	return m.failure(method)
}

func (m *MockReplyStorage) CreateReply(ctx context.Context, authorID, commentID uint, content string) (*models.Reply, error) {
	if err := m.track("CreateReply"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	reply := &models.Reply{
		ID:        m.nextID,
		Content:   content,
		CommentID: commentID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nextID++
	m.replies[reply.ID] = reply

	result := *reply
	return &result, nil
}

func (m *MockReplyStorage) GetReplyByID(ctx context.Context, id uint) (*models.Reply, error) {
	if err := m.track("GetReplyByID"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reply, ok := m.replies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	result := *reply
	return &result, nil
}

func (m *MockReplyStorage) ListRepliesByComment(ctx context.Context, commentID uint) ([]models.Reply, error) {
	if err := m.track("ListRepliesByComment"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	replies := []models.Reply{}
	for _, r := range m.replies {
		if r.CommentID == commentID {
			replies = append(replies, *r)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies, nil
}

func (m *MockReplyStorage) UpdateReply(ctx context.Context, id uint, content string) (*models.Reply, error) {
	if err := m.track("UpdateReply"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reply, ok := m.replies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	reply.Content = content
	reply.UpdatedAt = time.Now()

	result := *reply
	return &result, nil
}

func (m *MockReplyStorage) DeleteReply(ctx context.Context, id uint) error {
	if err := m.track("DeleteReply"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.replies[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.replies, id)
	return nil
}
