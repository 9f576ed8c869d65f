package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

// MockCommentStorage не проверяет существование поста: это задача сервиса
type MockCommentStorage struct {
	failures
	mu       sync.Mutex
	comments map[uint]*models.Comment
	nextID   uint
	calls    map[string]int
}

func NewMockCommentStorage() *MockCommentStorage {
	return &MockCommentStorage{
		comments: make(map[uint]*models.Comment),
		nextID:   1,
		calls:    make(map[string]int),
	}
}

func (m *MockCommentStorage) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockCommentStorage) track(method string) error {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
	return m.failure(method)
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error) {
	if err := m.track("CreateComment"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	comment := &models.Comment{
		ID:        m.nextID,
		Content:   content,
		PostID:    postID,
		AuthorID:  authorID,
		Replies:   []models.Reply{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nextID++
	m.comments[comment.ID] = comment

	result := *comment
	return &result, nil
}

func (m *MockCommentStorage) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	if err := m.track("GetCommentByID"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	result := *comment
	return &result, nil
}

func (m *MockCommentStorage) ListCommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	if err := m.track("ListCommentsByPost"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	comments := []models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *MockCommentStorage) UpdateComment(ctx context.Context, id uint, content string) (*models.Comment, error) {
	if err := m.track("UpdateComment"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()

	result := *comment
	return &result, nil
}

func (m *MockCommentStorage) DeleteComment(ctx context.Context, id uint) error {
	if err := m.track("DeleteComment"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}
