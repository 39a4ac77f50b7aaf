package migrations

import (
	"context"
	"encoding/json"

	"coding-quiz-game/internal/bank"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			seed := bank.Default()
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				for i, q := range seed.Questions {
					options, err := json.Marshal(q.Options)
					if err != nil {
						return err
					}
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO questions (bank_id, position, question, options, correct)
						 VALUES (?, ?, ?, ?::jsonb, ?)
						 ON CONFLICT (bank_id, position) DO NOTHING`,
						seed.ID, i, q.Question, string(options), q.Correct,
					); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DELETE FROM questions WHERE bank_id = ?`, bank.DefaultID)
			return err
		},
	)
}
