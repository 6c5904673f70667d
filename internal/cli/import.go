package cli

import (
	"context"
	"fmt"
	"log"

	"quizmaster/internal/app"
	"quizmaster/internal/config"
	"quizmaster/internal/infra/file"
	pgloader "quizmaster/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewImportCmd loads a question set from the Postgres seed bank and appends
// its questions to the file-backed question store.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <set-id>",
		Short: "Import a question set from Postgres into the question bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, args[0])
		},
	}
}

func runImport(ctx context.Context, configPath, setID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	questions, err := pgloader.NewQuestionLoader(pool).LoadSet(ctx, setID)
	if err != nil {
		return err
	}

	exams := app.NewExamService(file.NewQuestionStore(cfg.QuestionsPath()))
	for _, q := range questions {
		if err := exams.AddQuestion(q); err != nil {
			return fmt.Errorf("import question %q: %w", q.Text, err)
		}
	}
	log.Printf("imported %d questions from set %s", len(questions), setID)
	return nil
}
