package domain

import "time"

// OptionsPerQuestion is the fixed number of answer options of every question.
const OptionsPerQuestion = 4

// Question is a multiple-choice question with exactly one correct option.
type Question struct {
	Question string   `json:"question" yaml:"question" validate:"required"`
	Options  []string `json:"options" yaml:"options" validate:"len=4,dive,required"`
	Correct  int      `json:"correct" yaml:"correct" validate:"min=0,max=3"`
}

// Bank is an ordered, immutable list of questions.
type Bank struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Questions []Question `json:"questions" yaml:"questions" validate:"min=1,dive"`
}

// Phase is the coarse lifecycle stage of a game.
type Phase string

const (
	PhaseStart   Phase = "start"
	PhasePlaying Phase = "playing"
	PhaseEnd     Phase = "end"
)

// Feedback texts shown once a question is locked.
const (
	FeedbackCorrect   = "Correct!"
	FeedbackIncorrect = "Incorrect!"
)

// GameView is the read model of a game, broadcast on every transition.
type GameView struct {
	GameID         string   `json:"gameId"`
	Phase          Phase    `json:"phase"`
	QuestionNumber int      `json:"questionNumber"`
	TotalQuestions int      `json:"totalQuestions"`
	Score          int      `json:"score"`
	TimeRemaining  int      `json:"timeRemaining"`
	Question       string   `json:"question,omitempty"`
	Options        []string `json:"options,omitempty"`
	Selected       *int     `json:"selected,omitempty"`
	Correct        *int     `json:"correct,omitempty"` // revealed only once locked
	Locked         bool     `json:"locked"`
	TimedOut       bool     `json:"timedOut"`
	Feedback       string   `json:"feedback,omitempty"`
	Percentage     int      `json:"percentage"`
}

// IsCorrectOption reports whether option i should be highlighted as the right answer.
func (v GameView) IsCorrectOption(i int) bool {
	return v.Correct != nil && *v.Correct == i
}

// IsWrongSelection reports whether option i was selected but is not the right answer.
func (v GameView) IsWrongSelection(i int) bool {
	return v.Selected != nil && *v.Selected == i && !v.IsCorrectOption(i)
}

// GameResult summarizes a completed game.
type GameResult struct {
	GameID     string    `json:"gameId"`
	BankID     string    `json:"bankId"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	FinishedAt time.Time `json:"finishedAt"`
}
