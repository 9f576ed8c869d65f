package reply

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/VitaminP8/postboard/internal/access"
	"github.com/VitaminP8/postboard/internal/subscription"
	"github.com/VitaminP8/postboard/models"
)

const resource = "reply"

// CommentGetter - проверка родительского комментария (реализует comment.CommentStorage)
type CommentGetter interface {
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
}

// Service - ответы на комментарии. Ответы - последний уровень вложенности.
type Service struct {
	store    ReplyStorage
	comments CommentGetter
	events   subscription.Publisher
}

func NewService(store ReplyStorage, comments CommentGetter, events subscription.Publisher) *Service {
	return &Service{
		store:    store,
		comments: comments,
		events:   events,
	}
}

func (s *Service) ListForComment(ctx context.Context, commentID uint) ([]models.Reply, error) {
	replies, err := s.store.ListRepliesByComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("could not list replies of comment %d: %w", commentID, err)
	}
	return replies, nil
}

func (s *Service) Create(ctx context.Context, commentID uint, content string) (*models.Reply, error) {
	userID, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	content, err = normalize(content)
	if err != nil {
		return nil, err
	}

	parent, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, access.Missing(err, "comment", commentID)
	}

	reply, err := s.store.CreateReply(ctx, userID, commentID, content)
	if err != nil {
		return nil, access.Missing(err, "comment", commentID)
	}

	s.publish(parent.PostID, reply.CommentID, reply.ID, subscription.ReplyCreated, reply)
	return reply, nil
}

func (s *Service) Update(ctx context.Context, id uint, content string) (*models.Reply, error) {
	if _, err := access.Authorize(ctx, resource, access.ActionEdit, id, s.store.GetReplyByID); err != nil {
		return nil, err
	}

	content, err := normalize(content)
	if err != nil {
		return nil, err
	}

	reply, err := s.store.UpdateReply(ctx, id, content)
	if err != nil {
		return nil, access.Missing(err, resource, id)
	}

	s.notify(ctx, reply.CommentID, reply.ID, subscription.ReplyUpdated, reply)
	return reply, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	existing, err := access.Authorize(ctx, resource, access.ActionDelete, id, s.store.GetReplyByID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReply(ctx, id); err != nil {
		return access.Missing(err, resource, id)
	}

	s.notify(ctx, existing.CommentID, id, subscription.ReplyDeleted, nil)
	return nil
}

// notify находит пост родительского комментария; ошибка поиска не влияет на результат операции
func (s *Service) notify(ctx context.Context, commentID, replyID uint, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	parent, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		log.Printf("could not resolve post of comment %d for %s event: %v", commentID, eventType, err)
		return
	}
	s.publish(parent.PostID, commentID, replyID, eventType, payload)
}

func (s *Service) publish(postID, commentID, replyID uint, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(postID, subscription.Event{
		Type:      eventType,
		CommentID: commentID,
		ReplyID:   replyID,
		Payload:   payload,
	})
}

func normalize(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", access.NewValidationError("content", "Content is required")
	}
	return content, nil
}
