package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

type MockPostStorage struct {
	failures
	mu     sync.Mutex
	posts  map[uint]*models.Post
	nextID uint
	calls  map[string]int
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts:  make(map[uint]*models.Post),
		nextID: 1,
		calls:  make(map[string]int),
	}
}

// Calls - сколько раз вызывался метод
func (m *MockPostStorage) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockPostStorage) track(method string) error {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
	return m.failure(method)
}

func (m *MockPostStorage) CreatePost(ctx context.Context, authorID uint, title, content string) (*models.Post, error) {
	if err := m.track("CreatePost"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	post := &models.Post{
		ID:        m.nextID,
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nextID++
	m.posts[post.ID] = post

	result := *post
	return &result, nil
}

func (m *MockPostStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	if err := m.track("GetPostByID"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	result := *post
	return &result, nil
}

func (m *MockPostStorage) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	if err := m.track("ListPostsByAuthor"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	posts := []models.Post{}
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (m *MockPostStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	if err := m.track("ListPosts"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (m *MockPostStorage) UpdatePost(ctx context.Context, id uint, title, content string) (*models.Post, error) {
	if err := m.track("UpdatePost"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	post.Title = title
	post.Content = content
	post.UpdatedAt = time.Now()

	result := *post
	return &result, nil
}

func (m *MockPostStorage) DeletePost(ctx context.Context, id uint) error {
	if err := m.track("DeletePost"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}
