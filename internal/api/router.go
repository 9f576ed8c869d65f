package api

import (
	"net/http"
	"time"

	"github.com/VitaminP8/postboard/internal/auth"
	"github.com/VitaminP8/postboard/internal/comment"
	"github.com/VitaminP8/postboard/internal/metrics"
	"github.com/VitaminP8/postboard/internal/post"
	"github.com/VitaminP8/postboard/internal/reply"
	"github.com/VitaminP8/postboard/internal/subscription"
	"github.com/VitaminP8/postboard/internal/thread"
	"github.com/VitaminP8/postboard/internal/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps - все, что нужно HTTP-слою. Сервисы собираются в main.
type Deps struct {
	Posts    *post.Service
	Comments *comment.Service
	Replies  *reply.Service
	Threads  *thread.Aggregator
	Users    user.UserStorage
	Auth     *auth.Authenticator
	Events   subscription.Manager
	TokenTTL time.Duration

	// RateLimitRPS <= 0 отключает ограничение мутаций
	RateLimitRPS   float64
	RateLimitBurst int

	// Metrics и Gatherer можно не задавать (тогда нет /metrics)
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
}

type handler struct {
	posts    *post.Service
	comments *comment.Service
	replies  *reply.Service
	threads  *thread.Aggregator
	users    user.UserStorage
	auth     *auth.Authenticator
	events   subscription.Manager
	tokenTTL time.Duration
}

func NewRouter(d Deps) http.Handler {
	h := &handler{
		posts:    d.Posts,
		comments: d.Comments,
		replies:  d.Replies,
		threads:  d.Threads,
		users:    d.Users,
		auth:     d.Auth,
		events:   d.Events,
		tokenTTL: d.TokenTTL,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(h.auth.Middleware)
		if d.RateLimitRPS > 0 {
			r.Use(newLimiterPool(d.RateLimitRPS, d.RateLimitBurst).limitMutations)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
		})

		// чтение открыто всем, изменения только с пользователем
		r.Get("/posts", h.feed)
		r.Get("/posts/{postId}", h.getPost)
		r.Get("/posts/{postId}/comments", h.listComments)
		r.Get("/posts/{postId}/events", h.streamEvents)
		r.Get("/comments/{commentId}/replies", h.listReplies)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/my-posts", h.listMyPosts)
			r.Post("/my-posts", h.createPost)
			r.Patch("/my-posts/{postId}", h.updatePost)
			r.Delete("/my-posts/{postId}", h.deletePost)
			r.Patch("/posts/{postId}", h.updatePost)
			r.Delete("/posts/{postId}", h.deletePost)

			r.Post("/posts/{postId}/comments", h.createComment)
			r.Patch("/posts/{postId}/comments/{commentId}", h.updateComment)
			r.Delete("/posts/{postId}/comments/{commentId}", h.deleteComment)
			r.Patch("/comments/{commentId}", h.updateComment)
			r.Delete("/comments/{commentId}", h.deleteComment)

			r.Post("/comments/{commentId}/replies", h.createReply)
			r.Patch("/comments/{commentId}/replies/{replyId}", h.updateReply)
			r.Delete("/comments/{commentId}/replies/{replyId}", h.deleteReply)
			r.Patch("/replies/{replyId}", h.updateReply)
			r.Delete("/replies/{replyId}", h.deleteReply)
		})
	})

	return r
}
