package postgres

import (
	"context"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
	"github.com/jinzhu/gorm"
)

// сортировка с ID, чтобы записи с одинаковым временем шли стабильно
const (
	newestFirst = "created_at desc, id desc"
	oldestFirst = "created_at asc, id asc"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, authorID uint, title, content string) (*models.Post, error) {
	post := &models.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}

	err := DB.Set("gorm:save_associations", false).Create(post).Error
	if err != nil {
		return nil, translate(err, "could not create post")
	}

	return post, nil
}

func (s *PostPostgresStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := DB.Preload("Author").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, translate(err, "could not get post by id")
	}

	return &post, nil
}

func (s *PostPostgresStorage) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := DB.Where("author_id = ?", authorID).Order(newestFirst).Find(&posts).Error
	if err != nil {
		return nil, translate(err, "could not get posts")
	}

	return posts, nil
}

func (s *PostPostgresStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := DB.Preload("Author").Order(newestFirst).Find(&posts).Error
	if err != nil {
		return nil, translate(err, "could not get posts")
	}

	return posts, nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id uint, title, content string) (*models.Post, error) {
	var post models.Post
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
			return err
		}
		return tx.Model(&post).Updates(map[string]interface{}{
			"title":   title,
			"content": content,
		}).Error
	})
	if err != nil {
		return nil, translate(err, "could not update post")
	}

	return &post, nil
}

// DeletePost - каскад на комментарии и ответы выполняют внешние ключи
func (s *PostPostgresStorage) DeletePost(ctx context.Context, id uint) error {
	result := DB.Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		return translate(result.Error, "could not delete post")
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}

	return nil
}
