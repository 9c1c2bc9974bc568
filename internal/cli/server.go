package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/config"
	"alba-quiz-service/internal/domain"
	"alba-quiz-service/internal/infra/memory"
	pgstore "alba-quiz-service/internal/infra/postgres"
	rediscache "alba-quiz-service/internal/infra/redis"
	"alba-quiz-service/internal/seed"
	transport "alba-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var (
		questions app.QuestionRepository
		quizzes   app.QuizRepository
		users     app.UserRepository
		progress  app.ProgressRepository
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		db := openBunDB(cfg.Postgres.URL)

		questions = pgstore.NewQuestionStore(pool)
		quizzes = pgstore.NewQuizStore(db)
		users = pgstore.NewUserStore(db)
		progress = pgstore.NewProgressStore(db)
	} else {
		// No database configured: run fully in memory with the bundled bank
		// and a demo user, useful for local development.
		questionStore := memory.NewQuestionStore(seed.Questions()...)
		userStore := memory.NewUserStore(demoUser())
		questions = questionStore
		quizzes = memory.NewQuizStore()
		users = userStore
		progress = memory.NewProgressStore(questionStore)
		log.Printf("postgres url not configured, using in-memory stores with demo user %q", demoUser().ID)
	}

	if redisClient != nil {
		questions = rediscache.NewQuestionCache(redisClient, questions, cacheTTL)
	}

	service := app.NewQuizService(questions, quizzes, users, progress, app.NewLiveTracker())
	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/quiz", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting alba quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func demoUser() domain.User {
	return domain.User{
		ID:        "demo-user",
		Name:      "Demo",
		Email:     "demo@example.com",
		CreatedAt: time.Now().UTC(),
		Stats: domain.UserStats{
			Level: domain.LevelPrincipiante,
		},
		CategoryProgress: domain.NewCategoryProgress(),
	}
}
