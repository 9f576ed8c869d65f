package memory

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock - часы, которые идут вперед на секунду при каждом вызове
func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestPostMemoryStorage_CreatePost(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	posts := NewPostMemoryStorage(db)

	t.Run("Success post creation", func(t *testing.T) {
		post, err := posts.CreatePost(ctx, 1, "Test Post", "Test Content")
		require.NoError(t, err)
		assert.NotZero(t, post.ID)
		assert.Equal(t, "Test Post", post.Title)
		assert.Equal(t, "Test Content", post.Content)
		assert.Equal(t, uint(1), post.AuthorID)
		assert.False(t, post.CreatedAt.IsZero())
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	})

	t.Run("Returned post is a copy", func(t *testing.T) {
		post, err := posts.CreatePost(ctx, 1, "Original", "Content")
		require.NoError(t, err)

		post.Title = "Changed outside"

		stored, err := posts.GetPostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", stored.Title)
	})
}

func TestPostMemoryStorage_GetPostByID(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	users := NewUserMemoryStorage(db)
	posts := NewPostMemoryStorage(db)

	author, err := users.RegisterUser(ctx, "alice", "alice@example.com", "password", nil)
	require.NoError(t, err)

	created, err := posts.CreatePost(ctx, author.ID, "Title", "Content")
	require.NoError(t, err)

	t.Run("Getting exists post with author", func(t *testing.T) {
		post, err := posts.GetPostByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, post.ID)
		require.NotNil(t, post.Author)
		assert.Equal(t, "alice", post.Author.Username)
	})

	t.Run("Trying to get not exist post", func(t *testing.T) {
		post, err := posts.GetPostByID(ctx, 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, post)
	})
}

func TestPostMemoryStorage_Lists(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	db.SetClock(fixedClock())
	posts := NewPostMemoryStorage(db)

	first, err := posts.CreatePost(ctx, 1, "First", "Content")
	require.NoError(t, err)
	second, err := posts.CreatePost(ctx, 2, "Second", "Content")
	require.NoError(t, err)
	third, err := posts.CreatePost(ctx, 1, "Third", "Content")
	require.NoError(t, err)

	t.Run("All posts newest first", func(t *testing.T) {
		all, err := posts.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, third.ID, all[0].ID)
		assert.Equal(t, second.ID, all[1].ID)
		assert.Equal(t, first.ID, all[2].ID)
	})

	t.Run("Posts of one author newest first", func(t *testing.T) {
		mine, err := posts.ListPostsByAuthor(ctx, 1)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, third.ID, mine[0].ID)
		assert.Equal(t, first.ID, mine[1].ID)
	})

	t.Run("Author without posts gets empty list", func(t *testing.T) {
		mine, err := posts.ListPostsByAuthor(ctx, 42)
		require.NoError(t, err)
		assert.NotNil(t, mine)
		assert.Empty(t, mine)
	})

	t.Run("Same timestamp falls back to ID", func(t *testing.T) {
		same := NewDatabase()
		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		same.SetClock(func() time.Time { return at })
		s := NewPostMemoryStorage(same)

		a, err := s.CreatePost(ctx, 1, "A", "Content")
		require.NoError(t, err)
		b, err := s.CreatePost(ctx, 1, "B", "Content")
		require.NoError(t, err)

		all, err := s.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, b.ID, all[0].ID)
		assert.Equal(t, a.ID, all[1].ID)
	})
}

func TestPostMemoryStorage_UpdatePost(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	db.SetClock(fixedClock())
	posts := NewPostMemoryStorage(db)

	created, err := posts.CreatePost(ctx, 1, "Title", "Content")
	require.NoError(t, err)

	t.Run("Update title and content", func(t *testing.T) {
		updated, err := posts.UpdatePost(ctx, created.ID, "New title", "New content")
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "New content", updated.Content)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("Update missing post", func(t *testing.T) {
		_, err := posts.UpdatePost(ctx, 999, "Title", "Content")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPostMemoryStorage_DeletePost(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	posts := NewPostMemoryStorage(db)
	comments := NewCommentMemoryStorage(db)
	replies := NewReplyMemoryStorage(db)

	post, err := posts.CreatePost(ctx, 1, "Title", "Content")
	require.NoError(t, err)
	other, err := posts.CreatePost(ctx, 1, "Other", "Content")
	require.NoError(t, err)

	comment, err := comments.CreateComment(ctx, 2, post.ID, "Comment")
	require.NoError(t, err)
	reply, err := replies.CreateReply(ctx, 3, comment.ID, "Reply")
	require.NoError(t, err)
	otherComment, err := comments.CreateComment(ctx, 2, other.ID, "Kept")
	require.NoError(t, err)

	t.Run("Delete cascades to comments and replies", func(t *testing.T) {
		require.NoError(t, posts.DeletePost(ctx, post.ID))

		_, err := posts.GetPostByID(ctx, post.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = comments.GetCommentByID(ctx, comment.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = replies.GetReplyByID(ctx, reply.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// комментарии другого поста не тронуты
		_, err = comments.GetCommentByID(ctx, otherComment.ID)
		assert.NoError(t, err)
	})

	t.Run("Second delete is NotFound", func(t *testing.T) {
		err := posts.DeletePost(ctx, post.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
