package redis

import (
	"context"
	"sync"
	"time"

	"coding-quiz-game/internal/app"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Games hold live timers, so they stay in a local map.
//   - Redis carries a liveness marker per game (quiz:game:{id}) that expires
//     with the session TTL and is removed when the game is discarded, giving
//     operators a cross-instance view of active games.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
	}
}

func (s *SessionStore) Put(game *app.Game) {
	s.mu.Lock()
	s.games[game.ID()] = game
	s.mu.Unlock()
	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(game.ID()), "1", s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("game_id", game.ID()).Msg("failed to mark game live")
	}
}

func (s *SessionStore) Get(gameID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	return game, ok
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	delete(s.games, gameID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(gameID)).Err()
}

func (s *SessionStore) List() []*app.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*app.Game, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game)
	}
	return games
}

// ActiveCount reports how many liveness markers are present in Redis, across instances.
func (s *SessionStore) ActiveCount(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, "quiz:game:*", 100).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

func (s *SessionStore) key(gameID string) string {
	return "quiz:game:" + gameID
}
