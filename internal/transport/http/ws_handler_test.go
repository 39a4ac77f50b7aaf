package http

import (
	"testing"
	"time"

	"coding-quiz-game/internal/app"
	"coding-quiz-game/internal/domain"
	"github.com/gorilla/websocket"
)

func TestWebSocketAnswerFlow(t *testing.T) {
	env := newTestEnv(t)

	conn := dial(t, env, "/ws")
	initial := readState(t, conn, func(v domain.GameView) bool { return true })
	if initial.Phase != domain.PhaseStart || initial.GameID == "" {
		t.Fatalf("expected start screen of a new game, got %+v", initial)
	}

	send(t, conn, map[string]any{"type": "start"})
	readState(t, conn, func(v domain.GameView) bool { return v.Phase == domain.PhasePlaying })

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"option": 0}})
	locked := readState(t, conn, func(v domain.GameView) bool { return v.Locked })
	if locked.Feedback != domain.FeedbackCorrect || locked.Score != 1 {
		t.Fatalf("expected correct answer, got %+v", locked)
	}

	env.clock.Advance(app.DefaultFeedbackDelay)
	next := readState(t, conn, func(v domain.GameView) bool { return !v.Locked })
	if next.QuestionNumber != 2 || next.TimeRemaining != 30 {
		t.Fatalf("expected second question with fresh timer, got %+v", next)
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env, "/ws")
	readState(t, conn, func(v domain.GameView) bool { return true })

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{}})
	if msg := readMessage(t, conn); msg.Type != "error" {
		t.Fatalf("expected error for missing option, got %s", msg.Type)
	}

	send(t, conn, map[string]any{"type": "cheat"})
	if msg := readMessage(t, conn); msg.Type != "error" {
		t.Fatalf("expected error for unsupported type, got %s", msg.Type)
	}
}

func TestWebSocketJoinsExistingGame(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.service.NewGame(t.Context())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}

	conn := dial(t, env, "/ws?gameId="+view.GameID)
	readState(t, conn, func(v domain.GameView) bool { return v.GameID == view.GameID })

	// Actions from another transport reach the socket.
	if _, err := env.service.Start(t.Context(), view.GameID); err != nil {
		t.Fatalf("start: %v", err)
	}
	readState(t, conn, func(v domain.GameView) bool { return v.Phase == domain.PhasePlaying })

	conn.Close()
	time.Sleep(50 * time.Millisecond)
	if _, err := env.service.View(t.Context(), view.GameID); err != nil {
		t.Fatalf("expected joined game to outlive the socket, got %v", err)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	env := newTestEnv(t)
	u := "ws" + env.server.URL[len("http"):] + "/ws?gameId=missing"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}

type wireMessage struct {
	Type    string         `json:"type"`
	Payload domain.GameView `json:"payload"`
}

func dial(t *testing.T, env *testEnv, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + env.server.URL[len("http"):] + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	var msg wireMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg
}

// readState skips state messages until one matches.
func readState(t *testing.T, conn *websocket.Conn, match func(domain.GameView) bool) domain.GameView {
	t.Helper()
	for {
		msg := readMessage(t, conn)
		if msg.Type != "state" {
			t.Fatalf("expected state message, got %s", msg.Type)
		}
		if match(msg.Payload) {
			return msg.Payload
		}
	}
}
