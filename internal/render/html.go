package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"coding-quiz-game/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer projects game views to HTML. It holds no state besides parsed templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("quiz").Funcs(template.FuncMap{
		"optionClass":   OptionClass,
		"feedbackClass": feedbackClass,
		"timerClass":    timerClass,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes a full HTML document for the view.
func (r *Renderer) Page(w io.Writer, view domain.GameView) error {
	return r.tmpl.ExecuteTemplate(w, "page", view)
}

// Screen writes the fragment for the view's phase (start, playing or end).
func (r *Renderer) Screen(w io.Writer, view domain.GameView) error {
	return r.tmpl.ExecuteTemplate(w, "screen", view)
}

// ScreenString renders the fragment into a string, for SSE payloads.
func (r *Renderer) ScreenString(view domain.GameView) (string, error) {
	var b bytes.Buffer
	if err := r.Screen(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// OptionClass returns the state classes of answer option i: green for the
// correct answer and red for a wrong selection once the question is locked.
func OptionClass(view domain.GameView, i int) string {
	switch {
	case view.IsCorrectOption(i):
		return "border-green-500 bg-green-100 text-green-800"
	case view.IsWrongSelection(i):
		return "border-red-500 bg-red-100 text-red-800"
	case view.Locked:
		return "border-gray-200 text-gray-500"
	default:
		return "border-gray-200 hover:bg-blue-50 hover:border-blue-300"
	}
}

func feedbackClass(feedback string) string {
	if feedback == domain.FeedbackCorrect {
		return "text-green-600"
	}
	return "text-red-600"
}

func timerClass(remaining int) string {
	if remaining <= 10 {
		return "text-red-600"
	}
	return "text-blue-600"
}
