package app

import (
	"math"
	"sync"
	"time"

	"coding-quiz-game/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultQuestionTime is the countdown every question starts with.
	DefaultQuestionTime = 30 * time.Second
	// DefaultFeedbackDelay is how long feedback stays visible before auto-advance.
	DefaultFeedbackDelay = 1500 * time.Millisecond
)

// GameOptions tunes timing and hooks of a Game. Zero values fall back to defaults.
type GameOptions struct {
	Clock         clockwork.Clock
	QuestionTime  time.Duration
	FeedbackDelay time.Duration
	// OnFinish is invoked outside the game lock each time a round reaches End.
	OnFinish func(domain.GameResult)
}

// Game is the quiz state machine for one player. All transitions are
// serialized behind mu; invalid transitions are silently ignored.
type Game struct {
	id            string
	bank          domain.Bank
	clock         clockwork.Clock
	questionTime  int
	feedbackDelay time.Duration
	onFinish      func(domain.GameResult)

	mu         sync.Mutex
	phase      domain.Phase
	index      int
	score      int
	remaining  int
	selected   *int
	locked     bool
	timedOut   bool
	lastActive time.Time
	closed     bool

	// epoch is bumped whenever timers are stopped; timer callbacks scheduled
	// under an older epoch are stale and ignored.
	epoch      uint64
	ticker     clockwork.Ticker
	tickerDone chan struct{}
	advance    clockwork.Timer

	subscribers map[chan domain.GameView]struct{}
}

// NewGame builds a game in the Start phase. The bank must already be validated.
func NewGame(id string, bank domain.Bank, opts GameOptions) *Game {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	questionTime := opts.QuestionTime
	if questionTime <= 0 {
		questionTime = DefaultQuestionTime
	}
	delay := opts.FeedbackDelay
	if delay <= 0 {
		delay = DefaultFeedbackDelay
	}
	seconds := int(questionTime / time.Second)
	return &Game{
		id:            id,
		bank:          bank,
		clock:         clock,
		questionTime:  seconds,
		feedbackDelay: delay,
		onFinish:      opts.OnFinish,
		phase:         domain.PhaseStart,
		remaining:     seconds,
		lastActive:    clock.Now(),
		subscribers:   make(map[chan domain.GameView]struct{}),
	}
}

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// Start moves Start -> Playing.
func (g *Game) Start() domain.GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touchLocked()
	if g.closed || g.phase != domain.PhaseStart {
		return g.viewLocked()
	}
	g.beginLocked()
	return g.broadcastLocked()
}

// Restart moves End -> Playing with a fresh round.
func (g *Game) Restart() domain.GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touchLocked()
	if g.closed || g.phase != domain.PhaseEnd {
		return g.viewLocked()
	}
	g.beginLocked()
	return g.broadcastLocked()
}

// Select locks in option i for the current question. Clicks while locked,
// outside Playing, or with an out-of-range option are no-ops.
func (g *Game) Select(option int) domain.GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touchLocked()
	if g.closed || g.phase != domain.PhasePlaying || g.locked {
		return g.viewLocked()
	}
	q := g.bank.Questions[g.index]
	if option < 0 || option >= len(q.Options) {
		return g.viewLocked()
	}

	g.stopTimersLocked()
	choice := option
	g.selected = &choice
	g.locked = true
	if option == q.Correct {
		g.score++
	}
	g.scheduleAdvanceLocked()

	log.Debug().
		Str("game_id", g.id).
		Int("question", g.index+1).
		Int("option", option).
		Bool("correct", option == q.Correct).
		Msg("answer locked")
	return g.broadcastLocked()
}

// Tick decrements the countdown by one second. It is driven by the game's own
// ticker; calling it directly is allowed and obeys the same guards.
func (g *Game) Tick() domain.GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tickLocked()
}

// Advance moves past a locked question, to the next one or to End.
func (g *Game) Advance() domain.GameView {
	g.mu.Lock()
	view, result := g.advanceLocked()
	g.mu.Unlock()
	g.finish(result)
	return view
}

// View returns the current read model.
func (g *Game) View() domain.GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked()
}

// IdleSince returns the time of the last player action.
func (g *Game) IdleSince() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// Close stops all timers and closes subscriber channels. Further transitions are no-ops.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.stopTimersLocked()
	for ch := range g.subscribers {
		delete(g.subscribers, ch)
		close(ch)
	}
}

// Subscribe returns a channel receiving the current view followed by every
// subsequent transition. The caller must invoke cancel to avoid leaks.
func (g *Game) Subscribe() (<-chan domain.GameView, func()) {
	ch := make(chan domain.GameView, 8)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	g.subscribers[ch] = struct{}{}
	initial := g.viewLocked()
	g.mu.Unlock()

	ch <- initial

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *Game) beginLocked() {
	g.phase = domain.PhasePlaying
	g.index = 0
	g.score = 0
	g.resetQuestionLocked()
	log.Info().Str("game_id", g.id).Str("bank_id", g.bank.ID).Msg("round started")
}

func (g *Game) resetQuestionLocked() {
	g.stopTimersLocked()
	g.remaining = g.questionTime
	g.selected = nil
	g.locked = false
	g.timedOut = false
	g.startTickerLocked()
}

func (g *Game) tickLocked() domain.GameView {
	if g.closed || g.phase != domain.PhasePlaying || g.locked {
		return g.viewLocked()
	}
	if g.remaining > 0 {
		g.remaining--
	}
	if g.remaining == 0 {
		g.stopTimersLocked()
		g.locked = true
		g.timedOut = true
		g.scheduleAdvanceLocked()
		log.Debug().Str("game_id", g.id).Int("question", g.index+1).Msg("question timed out")
	}
	return g.broadcastLocked()
}

func (g *Game) advanceLocked() (domain.GameView, *domain.GameResult) {
	if g.closed || g.phase != domain.PhasePlaying || !g.locked {
		return g.viewLocked(), nil
	}
	if g.index+1 < len(g.bank.Questions) {
		g.index++
		g.resetQuestionLocked()
		return g.broadcastLocked(), nil
	}

	g.stopTimersLocked()
	g.phase = domain.PhaseEnd
	g.selected = nil
	g.locked = false
	g.timedOut = false
	result := &domain.GameResult{
		GameID:     g.id,
		BankID:     g.bank.ID,
		Score:      g.score,
		Total:      len(g.bank.Questions),
		Percentage: percentage(g.score, len(g.bank.Questions)),
		FinishedAt: g.clock.Now(),
	}
	log.Info().
		Str("game_id", g.id).
		Int("score", result.Score).
		Int("total", result.Total).
		Int("percentage", result.Percentage).
		Msg("round finished")
	return g.broadcastLocked(), result
}

func (g *Game) finish(result *domain.GameResult) {
	if result != nil && g.onFinish != nil {
		g.onFinish(*result)
	}
}

func (g *Game) startTickerLocked() {
	epoch := g.epoch
	ticker := g.clock.NewTicker(time.Second)
	done := make(chan struct{})
	g.ticker = ticker
	g.tickerDone = done

	go func() {
		for {
			select {
			case <-ticker.Chan():
				g.mu.Lock()
				if g.epoch == epoch {
					g.tickLocked()
				}
				g.mu.Unlock()
			case <-done:
				return
			}
		}
	}()
}

func (g *Game) scheduleAdvanceLocked() {
	epoch := g.epoch
	g.advance = g.clock.AfterFunc(g.feedbackDelay, func() {
		g.mu.Lock()
		if g.epoch != epoch {
			g.mu.Unlock()
			return
		}
		_, result := g.advanceLocked()
		g.mu.Unlock()
		g.finish(result)
	})
}

// stopTimersLocked cancels the countdown and any pending auto-advance.
func (g *Game) stopTimersLocked() {
	g.epoch++
	if g.ticker != nil {
		g.ticker.Stop()
		close(g.tickerDone)
		g.ticker = nil
		g.tickerDone = nil
	}
	if g.advance != nil {
		g.advance.Stop()
		g.advance = nil
	}
}

func (g *Game) touchLocked() {
	g.lastActive = g.clock.Now()
}

func (g *Game) broadcastLocked() domain.GameView {
	view := g.viewLocked()
	for ch := range g.subscribers {
		select {
		case ch <- view:
		default:
			// Slow subscriber: replace the oldest pending view with the latest.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (g *Game) viewLocked() domain.GameView {
	total := len(g.bank.Questions)
	view := domain.GameView{
		GameID:         g.id,
		Phase:          g.phase,
		TotalQuestions: total,
		Score:          g.score,
		TimeRemaining:  g.remaining,
		Locked:         g.locked,
		TimedOut:       g.timedOut,
	}

	switch g.phase {
	case domain.PhasePlaying:
		q := g.bank.Questions[g.index]
		view.QuestionNumber = g.index + 1
		view.Question = q.Question
		view.Options = append([]string(nil), q.Options...)
		if g.selected != nil {
			selected := *g.selected
			view.Selected = &selected
		}
		if g.locked {
			correct := q.Correct
			view.Correct = &correct
			if g.selected != nil && *g.selected == q.Correct {
				view.Feedback = domain.FeedbackCorrect
			} else {
				view.Feedback = domain.FeedbackIncorrect
			}
		}
	case domain.PhaseEnd:
		view.QuestionNumber = total
		view.TimeRemaining = 0
		view.Percentage = percentage(g.score, total)
	}
	return view
}

func percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
