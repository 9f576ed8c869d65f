package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/postboard/models"
)

// Database - общее состояние in-memory хранилищ. Одна блокировка на все таблицы,
// чтобы каскадное удаление (пост -> комментарии -> ответы) было атомарным.
type Database struct {
	mu       sync.RWMutex
	users    map[uint]*models.User
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	replies  map[uint]*models.Reply
	nextID   uint
	now      func() time.Time
}

func NewDatabase() *Database {
	return &Database{
		users:    make(map[uint]*models.User),
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint]*models.Comment),
		replies:  make(map[uint]*models.Reply),
		nextID:   1,
		now:      time.Now,
	}
}

// SetClock подменяет часы (для тестов порядка)
func (db *Database) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// id выдает следующий ID; вызывать под блокировкой
func (db *Database) id() uint {
	id := db.nextID
	db.nextID++
	return id
}

// author - публичный профиль пользователя (копия); вызывать под блокировкой
func (db *Database) author(id uint) *models.User {
	u, ok := db.users[id]
	if !ok {
		return nil
	}
	return &models.User{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Image:    u.Image,
	}
}

// repliesOf - ответы комментария с авторами, старые первыми; вызывать под блокировкой
func (db *Database) repliesOf(commentID uint) []models.Reply {
	replies := []models.Reply{}
	for _, r := range db.replies {
		if r.CommentID == commentID {
			cp := *r
			cp.Author = db.author(r.AuthorID)
			replies = append(replies, cp)
		}
	}

	// Сортируем по CreatedAt (по возрастанию) и по ID при одинаковом времени
	sort.Slice(replies, func(i, j int) bool {
		return before(replies[i].CreatedAt, replies[i].ID, replies[j].CreatedAt, replies[j].ID)
	})
	return replies
}

// deleteComment удаляет комментарий и его ответы; вызывать под блокировкой
func (db *Database) deleteComment(id uint) {
	for replyID, r := range db.replies {
		if r.CommentID == id {
			delete(db.replies, replyID)
		}
	}
	delete(db.comments, id)
}

func before(at time.Time, id uint, otherAt time.Time, otherID uint) bool {
	if at.Equal(otherAt) {
		return id < otherID
	}
	return at.Before(otherAt)
}
