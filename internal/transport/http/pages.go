package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"coding-quiz-game/internal/app"
	"coding-quiz-game/internal/domain"
	"coding-quiz-game/internal/render"
	"github.com/rs/zerolog/log"
)

// SSEEventScreen carries a re-rendered screen fragment.
const SSEEventScreen = "screen"

// PageHandler serves the browser UI: full pages, fragments after each action,
// and an SSE stream of screens.
type PageHandler struct {
	service  *app.QuizService
	renderer *render.Renderer
}

func NewPageHandler(service *app.QuizService, renderer *render.Renderer) *PageHandler {
	return &PageHandler{service: service, renderer: renderer}
}

// Index creates a fresh game for every page load, so a reload starts over.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.NewGame(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("create game failed")
		http.Error(w, "could not create game", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, view); err != nil {
		log.Error().Err(err).Str("game_id", view.GameID).Msg("render page failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *PageHandler) Screen(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), r.PathValue("id"))
	h.writeScreen(w, view, err)
}

func (h *PageHandler) State(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

func (h *PageHandler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Start(r.Context(), r.PathValue("id"))
	h.writeScreen(w, view, err)
}

func (h *PageHandler) Answer(w http.ResponseWriter, r *http.Request) {
	option, err := strconv.Atoi(r.PathValue("option"))
	if err != nil {
		http.Error(w, "invalid option", http.StatusBadRequest)
		return
	}
	view, err := h.service.SelectAnswer(r.Context(), r.PathValue("id"), option)
	h.writeScreen(w, view, err)
}

func (h *PageHandler) Restart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Restart(r.Context(), r.PathValue("id"))
	h.writeScreen(w, view, err)
}

// Events streams the rendered screen on every state change until the client
// disconnects or the game is discarded.
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher.Flush()

	log.Debug().Str("game_id", gameID).Msg("sse client connected")
	defer log.Debug().Str("game_id", gameID).Msg("sse client disconnected")

	for {
		select {
		case view, ok := <-updates:
			if !ok {
				return
			}
			html, err := h.renderer.ScreenString(view)
			if err != nil {
				log.Error().Err(err).Str("game_id", gameID).Msg("render screen failed")
				continue
			}
			if err := writeEvent(w, SSEEventScreen, html); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (h *PageHandler) writeScreen(w http.ResponseWriter, view domain.GameView, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Screen(&buf, view); err != nil {
		log.Error().Err(err).Str("game_id", view.GameID).Msg("render screen failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeEvent frames data as one SSE event; every line gets its own data field.
func writeEvent(w http.ResponseWriter, event, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
