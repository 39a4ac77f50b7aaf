package cli

import (
	"context"
	"fmt"
	"time"

	"coding-quiz-game/internal/app"
	"coding-quiz-game/internal/bank"
	"coding-quiz-game/internal/config"
	"coding-quiz-game/internal/infra/memory"
	natspub "coding-quiz-game/internal/infra/nats"
	pgloader "coding-quiz-game/internal/infra/postgres"
	redisstore "coding-quiz-game/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// services holds the quiz service and the connections behind it.
type services struct {
	quiz    *app.QuizService
	closers []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildServices picks storage by configuration: Postgres or a YAML file for
// banks (else the embedded bank), Redis for caching and session liveness,
// NATS for finished rounds. Everything optional falls back to memory.
func buildServices(ctx context.Context, cfg config.Config) (_ *services, err error) {
	s := &services{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(bank.Default())
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		loader = pgloader.NewBankLoader(pool)
	case cfg.Bank.File != "":
		loader = bank.NewFileLoader(cfg.Bank.File)
	}

	bankTTL := config.Duration(cfg.Bank.TTL, 10*time.Minute)
	var banks app.BankRepository
	var store app.SessionRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
		store = redisstore.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		store = memory.NewSessionStore()
	}

	var results app.ResultSink = app.LogResultSink{}
	if cfg.NATS.URL != "" {
		publisher, err := natspub.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = publisher.Close() })
		results = publisher
	}

	s.quiz = app.NewQuizService(store, banks, app.ServiceOptions{
		BankID:        cfg.Bank.ID,
		QuestionTime:  config.Duration(cfg.Game.QuestionTime, app.DefaultQuestionTime),
		FeedbackDelay: config.Duration(cfg.Game.FeedbackDelay, app.DefaultFeedbackDelay),
		Results:       results,
	})
	s.closers = append(s.closers, s.quiz.DiscardAll)

	// Fail fast on an unusable bank instead of on the first page load.
	if _, err := banks.GetBank(ctx, cfg.Bank.ID); err != nil {
		return nil, fmt.Errorf("load bank %s: %w", cfg.Bank.ID, err)
	}
	log.Info().Str("bank_id", cfg.Bank.ID).Bool("redis", redisClient != nil).Bool("nats", cfg.NATS.URL != "").Msg("services ready")
	return s, nil
}
