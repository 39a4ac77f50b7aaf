package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"coding-quiz-game/internal/app"
	"coding-quiz-game/internal/bank"
	"coding-quiz-game/internal/infra/memory"
	"coding-quiz-game/internal/render"
	"github.com/jonboulle/clockwork"
)

type testEnv struct {
	service *app.QuizService
	store   *memory.SessionStore
	clock   *clockwork.FakeClock
	server  *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(bank.Default()), time.Minute)
	service := app.NewQuizService(store, banks, app.ServiceOptions{BankID: bank.DefaultID, Clock: clock})
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	server := httptest.NewServer(NewRouter(service, renderer))
	t.Cleanup(func() {
		server.Close()
		for _, game := range store.List() {
			game.Close()
		}
	})
	return &testEnv{service: service, store: store, clock: clock, server: server}
}
