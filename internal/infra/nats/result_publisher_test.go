package nats

import (
	"encoding/json"
	"testing"
	"time"

	"coding-quiz-game/internal/domain"
)

func TestResultMessage(t *testing.T) {
	finished := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msg, err := resultMessage(DefaultSubject, domain.GameResult{
		GameID:     "g1",
		BankID:     "coding",
		Score:      7,
		Total:      10,
		Percentage: 70,
		FinishedAt: finished,
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if msg.Subject != "quiz.results" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.Header.Get("Game-Id") != "g1" || msg.Header.Get("Bank-Id") != "coding" {
		t.Fatalf("unexpected headers %v", msg.Header)
	}

	var decoded domain.GameResult
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Score != 7 || decoded.Percentage != 70 || !decoded.FinishedAt.Equal(finished) {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}
