package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/postboard/internal/access"
	"github.com/VitaminP8/postboard/internal/subscription"
	"github.com/VitaminP8/postboard/models"
)

const resource = "comment"

// PostGetter - проверка, что пост существует (реализует post.PostStorage)
type PostGetter interface {
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
}

type Service struct {
	store  CommentStorage
	posts  PostGetter
	events subscription.Publisher
}

func NewService(store CommentStorage, posts PostGetter, events subscription.Publisher) *Service {
	return &Service{
		store:  store,
		posts:  posts,
		events: events,
	}
}

// ListForPost - комментарии поста с авторами и ответами, старые первыми.
// Для несуществующего поста возвращается пустой список.
func (s *Service) ListForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments, err := s.store.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("could not list comments of post %d: %w", postID, err)
	}
	return comments, nil
}

// Create: комментировать может любой пользователь, не только автор поста.
func (s *Service) Create(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	userID, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	content, err = normalize(content)
	if err != nil {
		return nil, err
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, access.Missing(err, "post", postID)
	}

	comment, err := s.store.CreateComment(ctx, userID, postID, content)
	if err != nil {
		// пост удалили между проверкой и вставкой
		return nil, access.Missing(err, "post", postID)
	}

	s.publish(comment.PostID, comment.ID, subscription.CommentCreated, comment)
	return comment, nil
}

func (s *Service) Update(ctx context.Context, id uint, content string) (*models.Comment, error) {
	if _, err := access.Authorize(ctx, resource, access.ActionEdit, id, s.store.GetCommentByID); err != nil {
		return nil, err
	}

	content, err := normalize(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.store.UpdateComment(ctx, id, content)
	if err != nil {
		return nil, access.Missing(err, resource, id)
	}

	s.publish(comment.PostID, comment.ID, subscription.CommentUpdated, comment)
	return comment, nil
}

// Delete удаляет комментарий; ответы удаляются каскадно
func (s *Service) Delete(ctx context.Context, id uint) error {
	existing, err := access.Authorize(ctx, resource, access.ActionDelete, id, s.store.GetCommentByID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteComment(ctx, id); err != nil {
		return access.Missing(err, resource, id)
	}

	s.publish(existing.PostID, id, subscription.CommentDeleted, nil)
	return nil
}

func (s *Service) publish(postID, commentID uint, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(postID, subscription.Event{Type: eventType, CommentID: commentID, Payload: payload})
}

// normalize обрезает пробелы; пустой после обрезки текст - ошибка валидации
func normalize(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", access.NewValidationError("content", "Content is required")
	}
	return content, nil
}
