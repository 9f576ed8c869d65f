package memory

import (
	"context"
	"sort"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

type PostMemoryStorage struct {
	db *Database
}

func NewPostMemoryStorage(db *Database) *PostMemoryStorage {
	return &PostMemoryStorage{db: db}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, authorID uint, title, content string) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	post := &models.Post{
		ID:        s.db.id(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.db.posts[post.ID] = post

	result := *post
	return &result, nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	post, exists := s.db.posts[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := *post
	result.Author = s.db.author(post.AuthorID)
	return &result, nil
}

func (s *PostMemoryStorage) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	posts := []models.Post{}
	for _, post := range s.db.posts {
		if post.AuthorID == authorID {
			posts = append(posts, *post)
		}
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.db.posts))
	for _, post := range s.db.posts {
		p := *post
		p.Author = s.db.author(post.AuthorID)
		posts = append(posts, p)
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id uint, title, content string) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	post, exists := s.db.posts[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	post.Title = title
	post.Content = content
	post.UpdatedAt = s.db.now()

	result := *post
	return &result, nil
}

func (s *PostMemoryStorage) DeletePost(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.posts[id]; !exists {
		return storage.ErrNotFound
	}

	for commentID, c := range s.db.comments {
		if c.PostID == id {
			s.db.deleteComment(commentID)
		}
	}
	delete(s.db.posts, id)
	return nil
}

func sortNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		return before(posts[j].CreatedAt, posts[j].ID, posts[i].CreatedAt, posts[i].ID)
	})
}
