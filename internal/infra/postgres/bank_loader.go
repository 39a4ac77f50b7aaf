package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"coding-quiz-game/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads a question bank from the questions table, ordered by position.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT question, options, correct FROM questions WHERE bank_id=$1 ORDER BY position`, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	bank := domain.Bank{ID: bankID}
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.Question, &raw, &q.Correct); err != nil {
			return domain.Bank{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			return domain.Bank{}, fmt.Errorf("unmarshal options: %w", err)
		}
		bank.Questions = append(bank.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	if len(bank.Questions) == 0 {
		return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
	}
	return bank, nil
}
