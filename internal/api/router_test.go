package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/postboard/internal/auth"
	"github.com/VitaminP8/postboard/internal/comment"
	"github.com/VitaminP8/postboard/internal/metrics"
	"github.com/VitaminP8/postboard/internal/post"
	"github.com/VitaminP8/postboard/internal/reply"
	"github.com/VitaminP8/postboard/internal/storage/memory"
	"github.com/VitaminP8/postboard/internal/subscription"
	"github.com/VitaminP8/postboard/internal/thread"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testJWTSecret     = []byte("test_secret_key_for_jwt")
	testSessionSecret = []byte("0123456789abcdef0123456789abcdef")
)

type testServer struct {
	router   http.Handler
	users    *memory.UserMemoryStorage
	posts    *memory.PostMemoryStorage
	comments *memory.CommentMemoryStorage
	replies  *memory.ReplyMemoryStorage
	events   *subscription.SubscriptionManager
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, rps float64, burst int) *testServer {
	t.Helper()

	db := memory.NewDatabase()
	s := &testServer{
		users:    memory.NewUserMemoryStorage(db),
		posts:    memory.NewPostMemoryStorage(db),
		comments: memory.NewCommentMemoryStorage(db),
		replies:  memory.NewReplyMemoryStorage(db),
		events:   subscription.NewSubscriptionManager(),
		registry: prometheus.NewRegistry(),
	}

	posts := post.NewService(s.posts, s.events)
	comments := comment.NewService(s.comments, s.posts, s.events)

	s.router = NewRouter(Deps{
		Posts:          posts,
		Comments:       comments,
		Replies:        reply.NewService(s.replies, s.comments, s.events),
		Threads:        thread.NewAggregator(posts, comments),
		Users:          s.users,
		Auth:           auth.NewAuthenticator(testJWTSecret, auth.NewCookieStore(testSessionSecret)),
		Events:         s.events,
		TokenTTL:       time.Hour,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		Metrics:        metrics.New(s.registry),
		Gatherer:       s.registry,
	})
	return s
}

// tokenFor регистрирует пользователя и возвращает его ID и JWT
func (s *testServer) tokenFor(t *testing.T, username string) (uint, string) {
	t.Helper()

	user, err := s.users.RegisterUser(context.Background(), username, username+"@example.com", "password123", nil)
	require.NoError(t, err)

	token, err := auth.IssueToken(testJWTSecret, user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return user.ID, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Reader
	switch b := body.(type) {
	case nil:
		payload = bytes.NewReader(nil)
	case string:
		payload = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func entityID(t *testing.T, rec *httptest.ResponseRecorder, key string) uint {
	t.Helper()

	entity, ok := decodeBody(t, rec)[key].(map[string]interface{})
	require.True(t, ok, rec.Body.String())
	return uint(entity["id"].(float64))
}

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func TestPostRoutes(t *testing.T) {
	s := newTestServer(t, 0, 0)
	aliceID, alice := s.tokenFor(t, "alice")
	_, bob := s.tokenFor(t, "bob")

	rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "Hello", "content": "World"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Post created successfully", body["message"])
	postID := entityID(t, rec, "post")

	t.Run("Round trip keeps title, content and author", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, path("/api/posts/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		p := decodeBody(t, rec)["post"].(map[string]interface{})
		assert.Equal(t, "Hello", p["title"])
		assert.Equal(t, "World", p["content"])
		assert.Equal(t, float64(aliceID), p["authorId"])
		assert.Equal(t, []interface{}{}, p["comments"])
	})

	t.Run("Anonymous create is unauthorized", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/my-posts", "", map[string]string{"title": "T", "content": "C"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])
	})

	t.Run("Create without content", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "T"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Title and content are required", decodeBody(t, rec)["error"])
	})

	t.Run("Other user cannot edit the post", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path("/api/posts/%d", postID), bob, map[string]string{"title": "Hacked", "content": "Hacked"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You do not have permission to edit this post", decodeBody(t, rec)["error"])

		stored, err := s.posts.GetPostByID(context.Background(), postID)
		require.NoError(t, err)
		assert.Equal(t, "Hello", stored.Title)
	})

	t.Run("Edit of missing post", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/posts/999", alice, map[string]string{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Post not found", decodeBody(t, rec)["error"])
	})

	t.Run("Non-numeric id does not resolve", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/posts/abc", alice, map[string]string{"title": "T", "content": "C"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Owner edit with empty title", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path("/api/my-posts/%d", postID), alice, map[string]string{"title": "", "content": "C"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Owner edits the post", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path("/api/posts/%d", postID), alice, map[string]string{"title": "Edited", "content": "Body"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Post updated successfully", body["message"])
		assert.Equal(t, "Edited", body["post"].(map[string]interface{})["title"])
	})

	t.Run("Malformed body is an unexpected error", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/my-posts", alice, "{not json")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error creating post", decodeBody(t, rec)["error"])
	})

	t.Run("List own posts", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/my-posts", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["posts"], 1)

		rec = s.do(t, http.MethodGet, "/api/my-posts", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{}, decodeBody(t, rec)["posts"])
	})

	t.Run("Other user cannot delete the post", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, path("/api/posts/%d", postID), bob, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You do not have permission to delete this post", decodeBody(t, rec)["error"])
	})
}

func TestThreadScenario(t *testing.T) {
	s := newTestServer(t, 0, 0)
	_, alice := s.tokenFor(t, "alice")
	bobID, bob := s.tokenFor(t, "bob")

	rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "P", "content": "Body"})
	require.Equal(t, http.StatusCreated, rec.Code)
	postID := entityID(t, rec, "post")

	t.Run("Anonymous comment is rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, path("/api/posts/%d/comments", postID), "", map[string]string{"content": "hi"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	rec = s.do(t, http.MethodPost, path("/api/posts/%d/comments", postID), bob, map[string]string{"content": "  hi  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Comment created successfully", body["message"])
	c := body["comment"].(map[string]interface{})
	assert.Equal(t, "hi", c["content"])
	assert.Equal(t, float64(bobID), c["authorId"])
	commentID := uint(c["id"].(float64))

	t.Run("Whitespace reply is rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, path("/api/comments/%d/replies", commentID), bob, map[string]string{"content": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Content is required", decodeBody(t, rec)["error"])
	})

	t.Run("Comment on missing post", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/posts/999/comments", bob, map[string]string{"content": "hi"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Post not found", decodeBody(t, rec)["error"])
	})

	rec = s.do(t, http.MethodPost, path("/api/comments/%d/replies", commentID), alice, map[string]string{"content": "thanks"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Reply created successfully", decodeBody(t, rec)["message"])
	replyID := entityID(t, rec, "reply")

	t.Run("Comments list nests replies with authors", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, path("/api/posts/%d/comments", postID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		comments := decodeBody(t, rec)["comments"].([]interface{})
		require.Len(t, comments, 1)
		first := comments[0].(map[string]interface{})
		assert.Equal(t, "bob", first["author"].(map[string]interface{})["username"])
		replies := first["replies"].([]interface{})
		require.Len(t, replies, 1)
		assert.Equal(t, "alice", replies[0].(map[string]interface{})["author"].(map[string]interface{})["username"])
	})

	t.Run("Replies list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, path("/api/comments/%d/replies", commentID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["replies"], 1)
	})

	t.Run("Post author cannot edit a foreign comment", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path("/api/posts/%d/comments/%d", postID, commentID), alice, map[string]string{"content": "mine now"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You do not have permission to edit this comment", decodeBody(t, rec)["error"])
	})

	t.Run("Comment author edits comment", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path("/api/comments/%d", commentID), bob, map[string]string{"content": " edited "})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Comment updated successfully", body["message"])
		assert.Equal(t, "edited", body["comment"].(map[string]interface{})["content"])
	})

	t.Run("Reply edit by both paths", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path("/api/replies/%d", replyID), bob, map[string]string{"content": "nope"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodPatch, path("/api/comments/%d/replies/%d", commentID, replyID), alice, map[string]string{"content": "welcome"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Reply updated successfully", decodeBody(t, rec)["message"])
	})

	t.Run("Missing reply", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/replies/999", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Reply not found", decodeBody(t, rec)["error"])
	})

	t.Run("Deleting the post cascades", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, path("/api/my-posts/%d", postID), alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Post deleted successfully", decodeBody(t, rec)["message"])

		rec = s.do(t, http.MethodGet, path("/api/posts/%d", postID), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = s.do(t, http.MethodDelete, path("/api/comments/%d", commentID), bob, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Comment not found", decodeBody(t, rec)["error"])

		rec = s.do(t, http.MethodPatch, path("/api/replies/%d", replyID), alice, map[string]string{"content": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFeed(t *testing.T) {
	s := newTestServer(t, 0, 0)
	_, alice := s.tokenFor(t, "alice")

	for _, title := range []string{"First", "Second"} {
		rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": title, "content": "Body"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	posts := decodeBody(t, rec)["posts"].([]interface{})
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].(map[string]interface{})["title"])
	assert.Equal(t, "alice", posts[0].(map[string]interface{})["author"].(map[string]interface{})["username"])
	assert.Equal(t, "First", posts[1].(map[string]interface{})["title"])
}

func TestAccountRoutes(t *testing.T) {
	s := newTestServer(t, 0, 0)

	t.Run("Register", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "carol", "email": "carol@example.com", "password": "secret123", "name": "Carol",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "carol", user["username"])
		assert.Equal(t, "Carol", user["name"])
		assert.NotContains(t, rec.Body.String(), "secret123")
		assert.NotContains(t, rec.Body.String(), "carol@example.com")
	})

	t.Run("Register taken username", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "carol", "email": "other@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Username is already taken", decodeBody(t, rec)["error"])
	})

	t.Run("Register taken email", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "carol2", "email": "carol@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email is already registered", decodeBody(t, rec)["error"])
	})

	t.Run("Register without password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "dave", "email": "d@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "carol", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["error"])
	})

	t.Run("Login issues token and session cookie", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "carol", "password": "secret123"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		token, _ := decodeBody(t, rec)["token"].(string)
		require.NotEmpty(t, token)

		me := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, "carol", decodeBody(t, me)["user"].(map[string]interface{})["username"])

		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)

		// cookie без токена тоже определяет пользователя
		req := httptest.NewRequest(http.MethodPost, "/api/my-posts", strings.NewReader(`{"title":"From cookie","content":"Body"}`))
		for _, c := range cookies {
			req.AddCookie(c)
		}
		created := httptest.NewRecorder()
		s.router.ServeHTTP(created, req)
		assert.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	})

	t.Run("Logout expires the cookie", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/logout", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, auth.SessionName, cookies[0].Name)
		assert.True(t, cookies[0].MaxAge < 0)
	})

	t.Run("Me without identity", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, 0.001, 2)
	_, alice := s.tokenFor(t, "alice")

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "T", "content": "C"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "T", "content": "C"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", decodeBody(t, rec)["error"])

	// чтение не ограничивается
	rec = s.do(t, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 0, 0)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	s.do(t, http.MethodGet, "/api/posts/999", "", nil)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `postboard_http_requests_total{method="GET",route="/api/posts/{postId}",status="404"} 1`)
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t, 0, 0)
	_, alice := s.tokenFor(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "P", "content": "Body"})
	require.Equal(t, http.StatusCreated, rec.Code)
	postID := entityID(t, rec, "post")

	t.Run("Missing post", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/posts/999/events", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Comment creation is streamed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, path("/api/posts/%d/events", postID), nil).WithContext(ctx)
		stream := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.router.ServeHTTP(stream, req)
		}()

		require.Eventually(t, func() bool {
			return s.events.Subscribers(postID) == 1
		}, time.Second, 10*time.Millisecond)

		rec := s.do(t, http.MethodPost, path("/api/posts/%d/comments", postID), alice, map[string]string{"content": "live"})
		require.Equal(t, http.StatusCreated, rec.Code)

		// даем обработчику записать событие, затем закрываем соединение
		time.Sleep(50 * time.Millisecond)
		cancel()
		<-done

		assert.Equal(t, 0, s.events.Subscribers(postID))
		assert.Equal(t, "text/event-stream", stream.Header().Get("Content-Type"))
		assert.Contains(t, stream.Body.String(), "event: "+subscription.CommentCreated)
		assert.Contains(t, stream.Body.String(), `"content":"live"`)
	})

	t.Run("Stream ends after the post is deleted", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/my-posts", alice, map[string]string{"title": "Short lived", "content": "Body"})
		require.Equal(t, http.StatusCreated, rec.Code)
		doomedID := entityID(t, rec, "post")

		req := httptest.NewRequest(http.MethodGet, path("/api/posts/%d/events", doomedID), nil)
		stream := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.router.ServeHTTP(stream, req)
		}()

		require.Eventually(t, func() bool {
			return s.events.Subscribers(doomedID) == 1
		}, time.Second, 10*time.Millisecond)

		rec = s.do(t, http.MethodDelete, path("/api/my-posts/%d", doomedID), alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stream is still open after the post was deleted")
		}

		assert.Equal(t, 0, s.events.Subscribers(doomedID))
		assert.Contains(t, stream.Body.String(), "event: "+subscription.PostDeleted)
	})
}
