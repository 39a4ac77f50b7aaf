package app

import (
	"context"
	"fmt"
	"time"

	"coding-quiz-game/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// SessionRepository abstracts where live games are kept (in-memory, Redis-aware, etc).
type SessionRepository interface {
	Put(game *Game)
	Get(gameID string) (*Game, bool)
	Delete(gameID string)
	List() []*Game
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// ResultSink receives the summary of every finished round.
type ResultSink interface {
	RecordResult(ctx context.Context, result domain.GameResult) error
}

// ServiceOptions configures game creation. Zero values fall back to defaults.
type ServiceOptions struct {
	BankID        string
	Clock         clockwork.Clock
	QuestionTime  time.Duration
	FeedbackDelay time.Duration
	Results       ResultSink
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	opts     ServiceOptions
}

func NewQuizService(store SessionRepository, banks BankRepository, opts ServiceOptions) *QuizService {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Results == nil {
		opts.Results = LogResultSink{}
	}
	return &QuizService{sessions: store, banks: banks, opts: opts}
}

// NewGame creates a game on the start screen for the configured bank.
func (s *QuizService) NewGame(ctx context.Context) (domain.GameView, error) {
	bank, err := s.banks.GetBank(ctx, s.opts.BankID)
	if err != nil {
		return domain.GameView{}, fmt.Errorf("load bank %s: %w", s.opts.BankID, err)
	}
	if err := domain.ValidateBank(bank); err != nil {
		return domain.GameView{}, err
	}

	game := NewGame(uuid.NewString(), bank, GameOptions{
		Clock:         s.opts.Clock,
		QuestionTime:  s.opts.QuestionTime,
		FeedbackDelay: s.opts.FeedbackDelay,
		OnFinish:      s.recordResult,
	})
	s.sessions.Put(game)
	log.Debug().Str("game_id", game.ID()).Str("bank_id", bank.ID).Msg("game created")
	return game.View(), nil
}

// Start begins the first round of a game.
func (s *QuizService) Start(_ context.Context, gameID string) (domain.GameView, error) {
	game, err := s.game(gameID)
	if err != nil {
		return domain.GameView{}, err
	}
	return game.Start(), nil
}

// SelectAnswer locks in an answer for the current question.
func (s *QuizService) SelectAnswer(_ context.Context, gameID string, option int) (domain.GameView, error) {
	game, err := s.game(gameID)
	if err != nil {
		return domain.GameView{}, err
	}
	return game.Select(option), nil
}

// Restart begins a new round after the game ended.
func (s *QuizService) Restart(_ context.Context, gameID string) (domain.GameView, error) {
	game, err := s.game(gameID)
	if err != nil {
		return domain.GameView{}, err
	}
	return game.Restart(), nil
}

// View returns the current state of a game.
func (s *QuizService) View(_ context.Context, gameID string) (domain.GameView, error) {
	game, err := s.game(gameID)
	if err != nil {
		return domain.GameView{}, err
	}
	return game.View(), nil
}

// Subscribe returns a channel that receives every view change of a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, gameID string) (<-chan domain.GameView, func(), error) {
	game, err := s.game(gameID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := game.Subscribe()
	return ch, cancel, nil
}

// Discard stops a game and drops it from the store.
func (s *QuizService) Discard(_ context.Context, gameID string) {
	game, ok := s.sessions.Get(gameID)
	if !ok {
		return
	}
	game.Close()
	s.sessions.Delete(gameID)
}

// SweepIdle discards games without player activity for longer than maxIdle.
func (s *QuizService) SweepIdle(maxIdle time.Duration) int {
	cutoff := s.opts.Clock.Now().Add(-maxIdle)
	swept := 0
	for _, game := range s.sessions.List() {
		if game.IdleSince().Before(cutoff) {
			game.Close()
			s.sessions.Delete(game.ID())
			swept++
		}
	}
	return swept
}

// DiscardAll closes every game, ending all open subscriptions.
func (s *QuizService) DiscardAll() {
	for _, game := range s.sessions.List() {
		game.Close()
		s.sessions.Delete(game.ID())
	}
}

func (s *QuizService) game(gameID string) (*Game, error) {
	game, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

func (s *QuizService) recordResult(result domain.GameResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Results.RecordResult(ctx, result); err != nil {
		log.Error().Err(err).Str("game_id", result.GameID).Msg("failed to record result")
	}
}

// LogResultSink writes finished rounds to the structured log.
type LogResultSink struct{}

func (LogResultSink) RecordResult(_ context.Context, result domain.GameResult) error {
	log.Info().
		Str("game_id", result.GameID).
		Str("bank_id", result.BankID).
		Int("score", result.Score).
		Int("total", result.Total).
		Int("percentage", result.Percentage).
		Msg("game result")
	return nil
}
