package models

import "time"

// Мягкое удаление (gorm.Model.DeletedAt) не используется: каскадное удаление
// комментариев и ответов выполняют внешние ключи в БД.

type User struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique" json:"-"`
	Password  string    `json:"-"`
	Name      *string   `json:"name"`
	Image     *string   `json:"image"`
}

type Post struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"type:integer REFERENCES users(id) ON DELETE CASCADE;index" json:"authorId"`
	Author    *User     `gorm:"foreignkey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostID    uint      `gorm:"type:integer REFERENCES posts(id) ON DELETE CASCADE;index" json:"postId"`
	AuthorID  uint      `gorm:"type:integer REFERENCES users(id) ON DELETE CASCADE;index" json:"authorId"`
	Author    *User     `gorm:"foreignkey:AuthorID" json:"author,omitempty"`
	Replies   []Reply   `gorm:"foreignkey:CommentID" json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Reply struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CommentID uint      `gorm:"type:integer REFERENCES comments(id) ON DELETE CASCADE;index" json:"commentId"`
	AuthorID  uint      `gorm:"type:integer REFERENCES users(id) ON DELETE CASCADE;index" json:"authorId"`
	Author    *User     `gorm:"foreignkey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID возвращает автора записи; только он может её менять и удалять.
func (p Post) OwnerID() uint { return p.AuthorID }

func (c Comment) OwnerID() uint { return c.AuthorID }

func (r Reply) OwnerID() uint { return r.AuthorID }
