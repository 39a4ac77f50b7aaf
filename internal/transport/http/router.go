package http

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"coding-quiz-game/internal/app"
	"coding-quiz-game/internal/render"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter wires every browser, SSE and WebSocket route onto one mux.
func NewRouter(service *app.QuizService, renderer *render.Renderer) http.Handler {
	pages := NewPageHandler(service, renderer)
	ws := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("GET /games/{id}", pages.Screen)
	mux.HandleFunc("GET /games/{id}/state", pages.State)
	mux.HandleFunc("GET /games/{id}/events", pages.Events)
	mux.HandleFunc("POST /games/{id}/start", pages.Start)
	mux.HandleFunc("POST /games/{id}/answers/{option}", pages.Answer)
	mux.HandleFunc("POST /games/{id}/restart", pages.Restart)
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodPost},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return requestLogger(c.Handler(mux))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// statusRecorder keeps Flush and Hijack reachable for SSE and WebSocket upgrades.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
