package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quizmaster/internal/app"
	"quizmaster/internal/domain"
	"quizmaster/internal/infra/file"
	pgloader "quizmaster/internal/infra/postgres"
	pgmigrations "quizmaster/internal/infra/postgres/migrations"
	infraredis "quizmaster/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestSeedExamLeaderboardEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestionSet(t, ctx, pgURL, "set-1", sampleQuestions())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	// Import the seed set into the file-backed question bank.
	dir := t.TempDir()
	questions := file.NewQuestionStore(filepath.Join(dir, "quest.bin"))
	exams := app.NewExamService(questions)

	seeded, err := pgloader.NewQuestionLoader(pool).LoadSet(ctx, "set-1")
	if err != nil {
		t.Fatalf("load set: %v", err)
	}
	for _, q := range seeded {
		if err := exams.AddQuestion(q); err != nil {
			t.Fatalf("import question: %v", err)
		}
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	resultLog := infraredis.NewResultCache(redisClient, file.NewResultLog(filepath.Join(dir, "results.csv")), 5*time.Minute)
	board := app.NewLeaderboardService(resultLog)

	// Alice: correct, wrong, skip = 4 - 1 + 0 = 3. Bob: all correct = 12.
	for _, attempt := range []struct {
		name    string
		answers []string
	}{
		{"alice", []string{"b", "a", "d"}},
		{"bob", []string{"b", "a", "c"}},
	} {
		result, err := exams.Run(ctx, attempt.name, app.SliceAnswers(attempt.answers))
		if err != nil {
			t.Fatalf("run %s: %v", attempt.name, err)
		}
		if _, err := board.Record(ctx, domain.ResultRow{
			Username:  attempt.name,
			Name:      attempt.name,
			Correct:   result.Correct,
			Incorrect: result.Incorrect,
			Skipped:   result.Skipped,
			Score:     result.Score,
		}); err != nil {
			t.Fatalf("record %s: %v", attempt.name, err)
		}
	}

	ranked, err := board.Board(ctx)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(ranked.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ranked.Rows))
	}
	if ranked.Rows[0].Username != "bob" || ranked.Rows[0].Score != 12 {
		t.Fatalf("expected bob leading with 12, got %+v", ranked.Rows[0])
	}
	if ranked.Rows[1].Username != "alice" || ranked.Rows[1].Score != 3 {
		t.Fatalf("expected alice second with 3, got %+v", ranked.Rows[1])
	}
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

func seedQuestionSet(t *testing.T, ctx context.Context, dsn, setID string, questions []domain.Question) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("marshal questions: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_sets (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, setID, string(data)); err != nil {
		t.Fatalf("insert question set: %v", err)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", Options: [3]string{"3", "4", "5"}, Correct: 1},
		{Text: "Capital of France?", Options: [3]string{"Paris", "Lyon", "Nice"}, Correct: 0},
		{Text: "Largest planet?", Options: [3]string{"Mars", "Venus", "Jupiter"}, Correct: 2},
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
