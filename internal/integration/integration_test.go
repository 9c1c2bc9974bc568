package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
	"alba-quiz-service/internal/infra/postgres"
	"alba-quiz-service/internal/infra/postgres/migrations"
	infraredis "alba-quiz-service/internal/infra/redis"
	"alba-quiz-service/internal/seed"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(t, pgURL)
	defer db.Close()
	runMigrations(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	questionStore := postgres.NewQuestionStore(pool)
	for _, q := range seed.Questions() {
		if err := questionStore.Insert(ctx, q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	questions := infraredis.NewQuestionCache(redisClient, questionStore, 5*time.Minute)

	users := postgres.NewUserStore(db)
	if err := users.Insert(ctx, domain.User{
		ID:               "u1",
		Name:             "Alicia",
		Email:            "alicia@example.com",
		Stats:            domain.UserStats{Level: domain.LevelPrincipiante},
		CategoryProgress: domain.NewCategoryProgress(),
	}); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	service := app.NewQuizService(
		questions,
		postgres.NewQuizStore(db),
		users,
		postgres.NewProgressStore(db),
		app.NewLiveTracker(),
	)

	category := domain.CategoryPersonajes
	started, err := service.StartQuiz(ctx, "u1", app.StartQuizInput{
		Mode:     domain.ModePractice,
		Category: &category,
	})
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	if len(started.Questions) == 0 {
		t.Fatalf("expected seeded personajes questions")
	}

	// Answer every question with the canonical answer, except one deliberate
	// miss on the first gradable question so the review queue has an entry.
	missed := false
	for _, q := range started.Questions {
		answer := q.Answer
		if q.Type == domain.TypeEssay {
			answer = domain.TextAnswer("una respuesta")
		} else if !missed {
			missed = true
			answer = domain.IndexAnswer(99)
			if q.Type == domain.TypeBoolean {
				answer = domain.BoolAnswer(!mustBool(t, q.Answer))
			}
		}
		if _, err := service.SubmitAnswer(ctx, started.QuizID, "u1", app.AnswerSubmission{
			QuestionID: q.ID,
			UserAnswer: answer,
		}); err != nil {
			t.Fatalf("submit %s: %v", q.ID, err)
		}
	}
	if !missed {
		t.Fatalf("expected at least one gradable question in the selection")
	}

	results, err := service.FinishQuiz(ctx, started.QuizID, "u1", time.Now().UTC())
	if err != nil {
		t.Fatalf("finish quiz: %v", err)
	}
	if results.Total != len(started.Questions) {
		t.Fatalf("expected total %d, got %d", len(started.Questions), results.Total)
	}

	// Stats round-tripped through Postgres jsonb.
	user, err := users.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.Stats.TotalQuestions != results.Total {
		t.Fatalf("stats not persisted: %+v", user.Stats)
	}
	if user.Stats.XP != results.Score*10 {
		t.Fatalf("expected %d xp, got %d", results.Score*10, user.Stats.XP)
	}

	// The miss feeds the review queue via the ON CONFLICT upsert.
	wrong, err := service.WrongQuestions(ctx, "u1")
	if err != nil {
		t.Fatalf("wrong questions: %v", err)
	}
	if len(wrong) == 0 {
		t.Fatalf("expected at least one wrong question")
	}

	review, err := service.StartQuiz(ctx, "u1", app.StartQuizInput{Mode: domain.ModeReview})
	if err != nil {
		t.Fatalf("start review: %v", err)
	}
	if len(review.Questions) != len(wrong) {
		t.Fatalf("review size %d != wrong count %d", len(review.Questions), len(wrong))
	}

	// Cached question reads come back intact from Redis.
	cached, err := questions.FindByID(ctx, started.Questions[0].ID)
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if cached.ID != started.Questions[0].ID || cached.Answer.IsZero() {
		t.Fatalf("cache round trip lost data: %+v", cached)
	}
}

func TestProgressUpsertIncrementsAttemptsInPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, cleanup := startPostgres(t, ctx)
	defer cleanup()

	db := openBun(t, pgURL)
	defer db.Close()
	runMigrations(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	questionStore := postgres.NewQuestionStore(pool)
	question := seed.Questions()[0]
	if err := questionStore.Insert(ctx, question); err != nil {
		t.Fatalf("seed question: %v", err)
	}

	store := postgres.NewProgressStore(db)
	record := domain.ProgressRecord{
		UserID:       "u1",
		QuestionID:   question.ID,
		IsCorrect:    false,
		Attempts:     1,
		LastAnswered: time.Now().UTC(),
	}
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	record.IsCorrect = true
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var attempts int
	var isCorrect bool
	err = db.QueryRowContext(ctx,
		`SELECT attempts, is_correct FROM user_progress WHERE user_id = ? AND question_id = ?`,
		"u1", question.ID,
	).Scan(&attempts, &isCorrect)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if attempts != 2 || !isCorrect {
		t.Fatalf("expected attempts=2 is_correct=true, got %d %v", attempts, isCorrect)
	}

	ids, err := store.IncorrectQuestionIDs(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("incorrect ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("corrected question must leave the wrong list, got %v", ids)
	}
}

func openBun(t *testing.T, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func runMigrations(t *testing.T, ctx context.Context, db *bun.DB) {
	t.Helper()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func mustBool(t *testing.T, v domain.AnswerValue) bool {
	t.Helper()
	b, err := v.Bool()
	if err != nil {
		t.Fatalf("canonical boolean answer did not coerce: %v", err)
	}
	return b
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
