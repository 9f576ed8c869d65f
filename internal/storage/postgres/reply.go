package postgres

import (
	"context"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
	"github.com/jinzhu/gorm"
)

type ReplyPostgresStorage struct{}

func NewReplyPostgresStorage() *ReplyPostgresStorage {
	return &ReplyPostgresStorage{}
}

func (s *ReplyPostgresStorage) CreateReply(ctx context.Context, authorID, commentID uint, content string) (*models.Reply, error) {
	reply := &models.Reply{
		Content:   content,
		CommentID: commentID,
		AuthorID:  authorID,
	}

	err := DB.Set("gorm:save_associations", false).Create(reply).Error
	if err != nil {
		return nil, translate(err, "could not create reply")
	}

	return s.load(reply.ID)
}

func (s *ReplyPostgresStorage) GetReplyByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	err := DB.Where("id = ?", id).First(&reply).Error
	if err != nil {
		return nil, translate(err, "could not get reply by id")
	}

	return &reply, nil
}

func (s *ReplyPostgresStorage) ListRepliesByComment(ctx context.Context, commentID uint) ([]models.Reply, error) {
	replies := []models.Reply{}
	err := DB.Preload("Author").
		Where("comment_id = ?", commentID).
		Order(oldestFirst).
		Find(&replies).Error
	if err != nil {
		return nil, translate(err, "could not get replies")
	}

	return replies, nil
}

func (s *ReplyPostgresStorage) UpdateReply(ctx context.Context, id uint, content string) (*models.Reply, error) {
	result := DB.Model(&models.Reply{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"updated_at": gorm.NowFunc(),
	})
	if result.Error != nil {
		return nil, translate(result.Error, "could not update reply")
	}
	if result.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.load(id)
}

func (s *ReplyPostgresStorage) DeleteReply(ctx context.Context, id uint) error {
	result := DB.Where("id = ?", id).Delete(&models.Reply{})
	if result.Error != nil {
		return translate(result.Error, "could not delete reply")
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *ReplyPostgresStorage) load(id uint) (*models.Reply, error) {
	var reply models.Reply
	err := DB.Preload("Author").Where("id = ?", id).First(&reply).Error
	if err != nil {
		return nil, translate(err, "could not load reply")
	}

	return &reply, nil
}
