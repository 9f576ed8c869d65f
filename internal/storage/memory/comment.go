package memory

import (
	"context"
	"sort"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

type CommentMemoryStorage struct {
	db *Database
}

func NewCommentMemoryStorage(db *Database) *CommentMemoryStorage {
	return &CommentMemoryStorage{db: db}
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	// аналог внешнего ключа comments.post_id
	if _, exists := s.db.posts[postID]; !exists {
		return nil, storage.ErrNotFound
	}

	now := s.db.now()
	comment := &models.Comment{
		ID:        s.db.id(),
		Content:   content,
		PostID:    postID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.db.comments[comment.ID] = comment

	return s.view(comment), nil
}

func (s *CommentMemoryStorage) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	comment, exists := s.db.comments[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := *comment
	return &result, nil
}

func (s *CommentMemoryStorage) ListCommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var roots []*models.Comment
	for _, comment := range s.db.comments {
		if comment.PostID == postID {
			roots = append(roots, comment)
		}
	}

	// Сортируем по CreatedAt (по возрастанию) и по ID при одинаковом времени
	sort.Slice(roots, func(i, j int) bool {
		return before(roots[i].CreatedAt, roots[i].ID, roots[j].CreatedAt, roots[j].ID)
	})

	comments := make([]models.Comment, 0, len(roots))
	for _, c := range roots {
		comments = append(comments, *s.view(c))
	}
	return comments, nil
}

func (s *CommentMemoryStorage) UpdateComment(ctx context.Context, id uint, content string) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	comment, exists := s.db.comments[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	comment.Content = content
	comment.UpdatedAt = s.db.now()

	return s.view(comment), nil
}

func (s *CommentMemoryStorage) DeleteComment(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.comments[id]; !exists {
		return storage.ErrNotFound
	}

	s.db.deleteComment(id)
	return nil
}

// view - копия комментария с автором и ответами; вызывать под блокировкой
func (s *CommentMemoryStorage) view(c *models.Comment) *models.Comment {
	result := *c
	result.Author = s.db.author(c.AuthorID)
	result.Replies = s.db.repliesOf(c.ID)
	return &result
}
