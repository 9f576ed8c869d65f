package comment

import (
	"context"

	"github.com/VitaminP8/postboard/models"
)

// CommentStorage - доступ к комментариям. Комментарии и ответы в списках
// упорядочены по времени создания (старые первыми) и содержат автора.
type CommentStorage interface {
	// CreateComment возвращает storage.ErrNotFound, если поста уже нет
	CreateComment(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error)
	// GetCommentByID - только сама запись, без автора и ответов
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id uint, content string) (*models.Comment, error)
	// DeleteComment удаляет комментарий вместе с ответами
	DeleteComment(ctx context.Context, id uint) error
}
