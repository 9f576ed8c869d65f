package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/postboard/internal/api"
	"github.com/VitaminP8/postboard/internal/auth"
	"github.com/VitaminP8/postboard/internal/comment"
	"github.com/VitaminP8/postboard/internal/config"
	"github.com/VitaminP8/postboard/internal/metrics"
	"github.com/VitaminP8/postboard/internal/post"
	"github.com/VitaminP8/postboard/internal/reply"
	"github.com/VitaminP8/postboard/internal/subscription"
	"github.com/VitaminP8/postboard/internal/thread"
	"github.com/VitaminP8/postboard/internal/user"

	"github.com/VitaminP8/postboard/internal/storage/memory"
	"github.com/VitaminP8/postboard/internal/storage/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "postboard",
	Short: "Блог: посты, комментарии и ответы",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// загружаем .env из нашего config.go
		config.LoadEnv()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP сервер",
	RunE: func(cmd *cobra.Command, args []string) error {
		storageType, _ := cmd.Flags().GetString("storage")
		addr, _ := cmd.Flags().GetString("addr")
		return serve(storageType, addr)
	},
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Применить SQL-миграции PostgreSQL",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		if err := postgres.InitDB(config.LoadDatabase()); err != nil {
			return err
		}
		defer postgres.CloseDB()

		return postgres.Migrate(command)
	},
}

func init() {
	serveCmd.Flags().String("storage", "memory", "Тип хранилища: memory или postgres")
	serveCmd.Flags().String("addr", "", "Адрес сервера (по умолчанию :PORT)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

type stores struct {
	posts    post.PostStorage
	comments comment.CommentStorage
	replies  reply.ReplyStorage
	users    user.UserStorage
}

func openStorage(storageType string) (stores, error) {
	switch storageType {
	case "postgres":
		if err := postgres.InitDB(config.LoadDatabase()); err != nil {
			return stores{}, err
		}
		if err := postgres.Migrate("up"); err != nil {
			return stores{}, fmt.Errorf("failed to migrate database: %w", err)
		}

		log.Println("Используется PostgreSQL хранилище")
		return stores{
			posts:    postgres.NewPostPostgresStorage(),
			comments: postgres.NewCommentPostgresStorage(),
			replies:  postgres.NewReplyPostgresStorage(),
			users:    postgres.NewUserPostgresStorage(),
		}, nil

	case "memory":
		log.Println("Используется in-memory хранилище")
		db := memory.NewDatabase()
		return stores{
			posts:    memory.NewPostMemoryStorage(db),
			comments: memory.NewCommentMemoryStorage(db),
			replies:  memory.NewReplyMemoryStorage(db),
			users:    memory.NewUserMemoryStorage(db),
		}, nil

	default:
		return stores{}, fmt.Errorf("неизвестный тип хранилища: %s", storageType)
	}
}

func serve(storageType, addr string) error {
	cfg := config.Load()
	if addr == "" {
		addr = ":" + cfg.Port
	}

	s, err := openStorage(storageType)
	if err != nil {
		return err
	}
	if storageType == "postgres" {
		defer postgres.CloseDB()
	}

	events := subscription.NewSubscriptionManager()
	posts := post.NewService(s.posts, events)
	comments := comment.NewService(s.comments, s.posts, events)

	router := api.NewRouter(api.Deps{
		Posts:          posts,
		Comments:       comments,
		Replies:        reply.NewService(s.replies, s.comments, events),
		Threads:        thread.NewAggregator(posts, comments),
		Users:          s.users,
		Auth:           auth.NewAuthenticator([]byte(cfg.JWTSecret), auth.NewCookieStore([]byte(cfg.SessionSecret))),
		Events:         events,
		TokenTTL:       cfg.TokenTTL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Metrics:        metrics.New(prometheus.DefaultRegisterer),
		Gatherer:       prometheus.DefaultGatherer,
	})

	// HTTP сервер
	server := api.NewServer(addr, router)

	// запуск HTTP сервер
	go func() {
		log.Printf("Сервер запущен на http://localhost%s/", addr)
		// ListenAndServe блокирует поток до server.Shutdown() или фатальной ошибки
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	log.Println("Завершение...")

	// Shutdown отменяет контексты запросов, потоки событий закрываются сами
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при завершении сервера: %w", err)
	}

	log.Println("Сервер остановлен корректно")
	return nil
}
