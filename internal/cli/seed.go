package cli

import (
	"fmt"
	"log"

	"alba-quiz-service/internal/config"
	pgstore "alba-quiz-service/internal/infra/postgres"
	"alba-quiz-service/internal/seed"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the bundled question bank into Postgres. Seeding is
// skipped when the bank already has questions.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configPath)
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

			store := pgstore.NewQuestionStore(pool)
			count, err := store.Count(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				log.Printf("question bank already has %d questions, skipping seed", count)
				return nil
			}

			questions := seed.Questions()
			for _, q := range questions {
				if err := store.Insert(ctx, q); err != nil {
					return err
				}
			}
			log.Printf("seeded %d questions", len(questions))
			return nil
		},
	}
}
