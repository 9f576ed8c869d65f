package post

import (
	"context"
	"fmt"

	"github.com/VitaminP8/postboard/internal/access"
	"github.com/VitaminP8/postboard/internal/subscription"
	"github.com/VitaminP8/postboard/models"
)

const resource = "post"

type Service struct {
	store  PostStorage
	events subscription.Publisher
}

// NewService - events может быть nil
func NewService(store PostStorage, events subscription.Publisher) *Service {
	return &Service{
		store:  store,
		events: events,
	}
}

// ListMine - посты текущего пользователя, новые первыми
func (s *Service) ListMine(ctx context.Context) ([]models.Post, error) {
	userID, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list posts of user %d: %w", userID, err)
	}
	return posts, nil
}

// ListAll - все посты (без комментариев), новые первыми
func (s *Service) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list posts: %w", err)
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return nil, access.Missing(err, resource, id)
	}
	return post, nil
}

// Create: пользователь, затем проверка полей. Пробелы в title/content не обрезаются.
func (s *Service) Create(ctx context.Context, title, content string) (*models.Post, error) {
	userID, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := validate(title, content); err != nil {
		return nil, err
	}

	post, err := s.store.CreatePost(ctx, userID, title, content)
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}
	return post, nil
}

// Update: пользователь, существование, авторство и только потом проверка полей.
func (s *Service) Update(ctx context.Context, id uint, title, content string) (*models.Post, error) {
	if _, err := access.Authorize(ctx, resource, access.ActionEdit, id, s.store.GetPostByID); err != nil {
		return nil, err
	}

	if err := validate(title, content); err != nil {
		return nil, err
	}

	post, err := s.store.UpdatePost(ctx, id, title, content)
	if err != nil {
		return nil, access.Missing(err, resource, id)
	}

	s.publish(id, subscription.PostUpdated, post)
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := access.Authorize(ctx, resource, access.ActionDelete, id, s.store.GetPostByID); err != nil {
		return err
	}

	if err := s.store.DeletePost(ctx, id); err != nil {
		return access.Missing(err, resource, id)
	}

	s.publish(id, subscription.PostDeleted, nil)
	return nil
}

func (s *Service) publish(postID uint, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(postID, subscription.Event{Type: eventType, Payload: payload})
}

func validate(title, content string) error {
	if title == "" || content == "" {
		return access.NewValidationError("title", "Title and content are required")
	}
	return nil
}
