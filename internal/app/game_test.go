package app_test

import (
	"testing"
	"time"

	"coding-quiz-game/internal/app"
	"coding-quiz-game/internal/bank"
	"coding-quiz-game/internal/domain"
	"github.com/jonboulle/clockwork"
)

func TestStartInitializesPlayingState(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})

	view := game.View()
	if view.Phase != domain.PhaseStart {
		t.Fatalf("expected start phase, got %s", view.Phase)
	}

	view = game.Start()
	assertInitialPlaying(t, view)
	if view.Question != "What does `useState` hook do in React?" {
		t.Fatalf("unexpected first question %q", view.Question)
	}
	if len(view.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(view.Options))
	}
}

func TestCorrectAnswerScoresAndAdvances(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})
	game.Start()

	view := game.Select(0) // useState -> "Manages state in functional components"
	if view.Score != 1 || !view.Locked || view.Feedback != domain.FeedbackCorrect {
		t.Fatalf("expected locked correct answer with score 1, got %+v", view)
	}
	if !view.IsCorrectOption(0) || view.IsWrongSelection(0) {
		t.Fatalf("expected option 0 highlighted as correct")
	}

	view = game.Advance()
	if view.QuestionNumber != 2 || view.Score != 1 {
		t.Fatalf("expected question 2 with score 1, got question %d score %d", view.QuestionNumber, view.Score)
	}
	if view.Locked || view.Selected != nil || view.TimeRemaining != 30 || view.Feedback != "" {
		t.Fatalf("expected fresh question state, got %+v", view)
	}
}

func TestIncorrectAnswerDoesNotScore(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})
	game.Start()

	view := game.Select(3)
	if view.Score != 0 || view.Feedback != domain.FeedbackIncorrect {
		t.Fatalf("expected incorrect answer, got %+v", view)
	}
	if !view.IsWrongSelection(3) || !view.IsCorrectOption(0) {
		t.Fatalf("expected option 3 red and option 0 green")
	}
}

func TestRepeatedSelectionScoresAtMostOnce(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})
	game.Start()

	game.Select(0)
	game.Select(0)
	game.Select(1)
	view := game.Select(2)

	if view.Score != 1 {
		t.Fatalf("expected score 1 after rapid clicks, got %d", view.Score)
	}
	if view.Selected == nil || *view.Selected != 0 {
		t.Fatalf("expected first selection to stick, got %v", view.Selected)
	}
}

func TestGuardsIgnoreInvalidActions(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})

	if view := game.Select(0); view.Phase != domain.PhaseStart || view.Score != 0 {
		t.Fatalf("select before start must be a no-op, got %+v", view)
	}
	if view := game.Tick(); view.TimeRemaining != 30 {
		t.Fatalf("tick before start must be a no-op, got %d", view.TimeRemaining)
	}
	if view := game.Restart(); view.Phase != domain.PhaseStart {
		t.Fatalf("restart before end must be a no-op, got %s", view.Phase)
	}

	game.Start()
	if view := game.Advance(); view.QuestionNumber != 1 {
		t.Fatalf("advance while unlocked must be a no-op, got question %d", view.QuestionNumber)
	}
	if view := game.Select(4); view.Locked {
		t.Fatalf("out-of-range option must be ignored")
	}
	if view := game.Select(-1); view.Locked {
		t.Fatalf("negative option must be ignored")
	}
	if view := game.Start(); view.QuestionNumber != 1 || view.Phase != domain.PhasePlaying {
		t.Fatalf("start while playing must be a no-op, got %+v", view)
	}
}

func TestTickCountsDownAndTimesOut(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})
	game.Start()

	for i := 1; i <= 5; i++ {
		if view := game.Tick(); view.TimeRemaining != 30-i {
			t.Fatalf("after %d ticks expected %d, got %d", i, 30-i, view.TimeRemaining)
		}
	}

	var view domain.GameView
	for i := 6; i <= 30; i++ {
		view = game.Tick()
	}
	if view.TimeRemaining != 0 || !view.Locked || !view.TimedOut {
		t.Fatalf("expected timeout lock at zero, got %+v", view)
	}
	if view.Feedback != domain.FeedbackIncorrect || view.Score != 0 {
		t.Fatalf("timeout must count as incorrect, got %+v", view)
	}

	if again := game.Tick(); again.TimeRemaining != 0 {
		t.Fatalf("tick after lock must be a no-op, got %d", again.TimeRemaining)
	}
	if late := game.Select(0); late.Score != 0 {
		t.Fatalf("click after timeout must be a no-op, got score %d", late.Score)
	}

	view = game.Advance()
	if view.QuestionNumber != 2 || view.TimeRemaining != 30 || view.Locked {
		t.Fatalf("expected question 2 after timeout, got %+v", view)
	}
}

func TestTickIsFrozenWhileLocked(t *testing.T) {
	game, _ := newFakeGame(t, bank.Default(), app.GameOptions{})
	game.Start()
	game.Tick()
	game.Select(1)

	if view := game.Tick(); view.TimeRemaining != 29 {
		t.Fatalf("expected frozen countdown at 29, got %d", view.TimeRemaining)
	}
}

func TestFullRoundReachesEndAndRestarts(t *testing.T) {
	b := bank.Default()
	var results []domain.GameResult
	game, _ := newFakeGame(t, b, app.GameOptions{
		OnFinish: func(r domain.GameResult) { results = append(results, r) },
	})
	game.Start()

	var view domain.GameView
	for i, q := range b.Questions {
		option := q.Correct
		if i%2 == 1 {
			option = (q.Correct + 1) % 4
		}
		game.Select(option)
		view = game.Advance()
	}

	if view.Phase != domain.PhaseEnd {
		t.Fatalf("expected end phase, got %s", view.Phase)
	}
	if view.Score != 5 || view.Percentage != 50 {
		t.Fatalf("expected 5/10 and 50%%, got %d and %d%%", view.Score, view.Percentage)
	}
	if len(results) != 1 || results[0].Score != 5 || results[0].Total != 10 || results[0].Percentage != 50 {
		t.Fatalf("expected one finished result, got %+v", results)
	}
	if again := game.Tick(); again.Phase != domain.PhaseEnd {
		t.Fatalf("tick after end must be a no-op")
	}

	assertInitialPlaying(t, game.Restart())
}

func TestPercentageRounds(t *testing.T) {
	b := domain.Bank{ID: "three", Questions: []domain.Question{
		{Question: "a", Options: []string{"1", "2", "3", "4"}, Correct: 0},
		{Question: "b", Options: []string{"1", "2", "3", "4"}, Correct: 0},
		{Question: "c", Options: []string{"1", "2", "3", "4"}, Correct: 0},
	}}

	cases := []struct {
		correct int
		want    int
	}{{0, 0}, {1, 33}, {2, 67}, {3, 100}}
	for _, tc := range cases {
		game, _ := newFakeGame(t, b, app.GameOptions{})
		game.Start()
		var view domain.GameView
		for i := range b.Questions {
			option := 1
			if i < tc.correct {
				option = 0
			}
			game.Select(option)
			view = game.Advance()
		}
		if view.Percentage != tc.want {
			t.Fatalf("%d/3 correct: expected %d%%, got %d%%", tc.correct, tc.want, view.Percentage)
		}
	}
}

func TestTickerDrivesCountdown(t *testing.T) {
	game, clock := newFakeGame(t, bank.Default(), app.GameOptions{})
	updates, cancel := game.Subscribe()
	defer cancel()
	<-updates // start screen

	game.Start()
	waitForView(t, updates, func(v domain.GameView) bool { return v.Phase == domain.PhasePlaying })

	for i := 1; i <= 3; i++ {
		clock.Advance(time.Second)
		want := 30 - i
		waitForView(t, updates, func(v domain.GameView) bool { return v.TimeRemaining == want })
	}
}

func TestTimeoutAutoAdvances(t *testing.T) {
	game, clock := newFakeGame(t, bank.Default(), app.GameOptions{QuestionTime: 2 * time.Second})
	updates, cancel := game.Subscribe()
	defer cancel()
	<-updates

	game.Start()
	waitForView(t, updates, func(v domain.GameView) bool { return v.Phase == domain.PhasePlaying })

	clock.Advance(time.Second)
	waitForView(t, updates, func(v domain.GameView) bool { return v.TimeRemaining == 1 })
	clock.Advance(time.Second)
	locked := waitForView(t, updates, func(v domain.GameView) bool { return v.Locked })
	if !locked.TimedOut || locked.Feedback != domain.FeedbackIncorrect || locked.Score != 0 {
		t.Fatalf("expected timed out incorrect lock, got %+v", locked)
	}

	clock.Advance(app.DefaultFeedbackDelay)
	next := waitForView(t, updates, func(v domain.GameView) bool { return v.QuestionNumber == 2 })
	if next.Locked || next.TimeRemaining != 2 || next.Score != 0 {
		t.Fatalf("expected fresh question 2, got %+v", next)
	}
}

func TestSelectionAutoAdvancesAfterFeedbackDelay(t *testing.T) {
	game, clock := newFakeGame(t, bank.Default(), app.GameOptions{})
	updates, cancel := game.Subscribe()
	defer cancel()
	<-updates

	game.Start()
	game.Select(0)
	waitForView(t, updates, func(v domain.GameView) bool { return v.Locked })

	clock.Advance(app.DefaultFeedbackDelay)
	view := waitForView(t, updates, func(v domain.GameView) bool { return v.QuestionNumber == 2 })
	if view.Score != 1 || view.TimeRemaining != 30 {
		t.Fatalf("expected Score 1 and a full countdown on question 2, got %+v", view)
	}
}

func TestManualAdvanceCancelsPendingTimer(t *testing.T) {
	game, clock := newFakeGame(t, bank.Default(), app.GameOptions{})
	updates, cancel := game.Subscribe()
	defer cancel()
	<-updates

	game.Start()
	game.Select(0)
	game.Advance()
	waitForView(t, updates, func(v domain.GameView) bool { return v.QuestionNumber == 2 })

	// The stale auto-advance must not skip question 2; only the new ticker fires.
	clock.Advance(app.DefaultFeedbackDelay)
	view := waitForView(t, updates, func(v domain.GameView) bool { return v.TimeRemaining == 29 })
	if view.QuestionNumber != 2 || view.Locked {
		t.Fatalf("expected unlocked question 2, got %+v", view)
	}
}

func TestCloseStopsTimersAndSubscribers(t *testing.T) {
	game, clock := newFakeGame(t, bank.Default(), app.GameOptions{})
	updates, _ := game.Subscribe()
	<-updates

	game.Start()
	game.Close()
	clock.Advance(5 * time.Second)

	for range updates {
		// drain until closed
	}
	if view := game.View(); view.TimeRemaining != 30 {
		t.Fatalf("expected countdown stopped at 30, got %d", view.TimeRemaining)
	}
	if view := game.Select(0); view.Locked {
		t.Fatalf("closed game must ignore selections")
	}

	late, _ := game.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("expected closed channel from closed game")
	}
}

func newFakeGame(t *testing.T, b domain.Bank, opts app.GameOptions) (*app.Game, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	opts.Clock = clock
	game := app.NewGame("game-1", b, opts)
	t.Cleanup(game.Close)
	return game, clock
}

func waitForView(t *testing.T, updates <-chan domain.GameView, match func(domain.GameView) bool) domain.GameView {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case view, ok := <-updates:
			if !ok {
				t.Fatalf("subscription closed while waiting")
			}
			if match(view) {
				return view
			}
		case <-deadline:
			t.Fatalf("timed out waiting for view")
		}
	}
}

func assertInitialPlaying(t *testing.T, view domain.GameView) {
	t.Helper()
	if view.Phase != domain.PhasePlaying || view.QuestionNumber != 1 || view.Score != 0 ||
		view.TimeRemaining != 30 || view.Locked || view.Selected != nil {
		t.Fatalf("expected initial playing state, got %+v", view)
	}
	if view.TotalQuestions != 10 {
		t.Fatalf("expected 10 questions, got %d", view.TotalQuestions)
	}
}
