package memory

import (
	"context"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

type ReplyMemoryStorage struct {
	db *Database
}

func NewReplyMemoryStorage(db *Database) *ReplyMemoryStorage {
	return &ReplyMemoryStorage{db: db}
}

func (s *ReplyMemoryStorage) CreateReply(ctx context.Context, authorID, commentID uint, content string) (*models.Reply, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.comments[commentID]; !exists {
		return nil, storage.ErrNotFound
	}

	now := s.db.now()
	reply := &models.Reply{
		ID:        s.db.id(),
		Content:   content,
		CommentID: commentID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.db.replies[reply.ID] = reply

	result := *reply
	result.Author = s.db.author(authorID)
	return &result, nil
}

func (s *ReplyMemoryStorage) GetReplyByID(ctx context.Context, id uint) (*models.Reply, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	reply, exists := s.db.replies[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := *reply
	return &result, nil
}

func (s *ReplyMemoryStorage) ListRepliesByComment(ctx context.Context, commentID uint) ([]models.Reply, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.db.repliesOf(commentID), nil
}

func (s *ReplyMemoryStorage) UpdateReply(ctx context.Context, id uint, content string) (*models.Reply, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	reply, exists := s.db.replies[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	reply.Content = content
	reply.UpdatedAt = s.db.now()

	result := *reply
	result.Author = s.db.author(reply.AuthorID)
	return &result, nil
}

func (s *ReplyMemoryStorage) DeleteReply(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.replies[id]; !exists {
		return storage.ErrNotFound
	}

	delete(s.db.replies, id)
	return nil
}
