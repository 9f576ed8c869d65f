package reply

import (
	"context"

	"github.com/VitaminP8/postboard/models"
)

type ReplyStorage interface {
	// CreateReply возвращает storage.ErrNotFound, если комментария уже нет
	CreateReply(ctx context.Context, authorID, commentID uint, content string) (*models.Reply, error)
	GetReplyByID(ctx context.Context, id uint) (*models.Reply, error)
	// ListRepliesByComment - ответы с автором, старые первыми
	ListRepliesByComment(ctx context.Context, commentID uint) ([]models.Reply, error)
	UpdateReply(ctx context.Context, id uint, content string) (*models.Reply, error)
	DeleteReply(ctx context.Context, id uint) error
}
