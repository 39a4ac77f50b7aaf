package memory

import (
	"sync"

	"coding-quiz-game/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		games: make(map[string]*app.Game),
	}
}

func (s *SessionStore) Put(game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = game
}

func (s *SessionStore) Get(gameID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	return game, ok
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
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
