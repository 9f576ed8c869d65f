package post

import (
	"context"

	"github.com/VitaminP8/postboard/models"
)

// PostStorage - доступ к постам. GetPostByID, UpdatePost и DeletePost
// возвращают storage.ErrNotFound, если поста нет.
type PostStorage interface {
	CreatePost(ctx context.Context, authorID uint, title, content string) (*models.Post, error)
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	// ListPostsByAuthor - посты автора, новые первыми
	ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	// ListPosts - все посты с автором, новые первыми
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id uint, title, content string) (*models.Post, error)
	// DeletePost удаляет пост вместе с комментариями и ответами
	DeletePost(ctx context.Context, id uint) error
}
