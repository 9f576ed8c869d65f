package postgres

import (
	"context"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

// withThread подгружает автора и ответы (с авторами) по времени создания
func withThread(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order(oldestFirst)
		}).
		Preload("Replies.Author")
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: authorID,
	}

	err := DB.Set("gorm:save_associations", false).Create(comment).Error
	if err != nil {
		return nil, translate(err, "could not create comment")
	}

	return s.load(comment.ID)
}

func (s *CommentPostgresStorage) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := DB.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, translate(err, "could not get comment by id")
	}

	return &comment, nil
}

func (s *CommentPostgresStorage) ListCommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := withThread(DB).
		Where("post_id = ?", postID).
		Order(oldestFirst).
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "could not get comments")
	}

	for i := range comments {
		if comments[i].Replies == nil {
			comments[i].Replies = []models.Reply{}
		}
	}
	return comments, nil
}

func (s *CommentPostgresStorage) UpdateComment(ctx context.Context, id uint, content string) (*models.Comment, error) {
	result := DB.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"updated_at": gorm.NowFunc(),
	})
	if result.Error != nil {
		return nil, translate(result.Error, "could not update comment")
	}
	if result.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.load(id)
}

// DeleteComment - ответы удаляются каскадно внешним ключом
func (s *CommentPostgresStorage) DeleteComment(ctx context.Context, id uint) error {
	result := DB.Where("id = ?", id).Delete(&models.Comment{})
	if result.Error != nil {
		return translate(result.Error, "could not delete comment")
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *CommentPostgresStorage) load(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := withThread(DB).Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, translate(err, "could not load comment")
	}
	if comment.Replies == nil {
		comment.Replies = []models.Reply{}
	}

	return &comment, nil
}
