package http

import (
	"context"
	"encoding/json"
	"net/http"

	"coding-quiz-game/internal/app"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one game over JSON
// messages. Without a gameId query parameter a new game is created and
// discarded again when the socket closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gameID := r.URL.Query().Get("gameId")
	owned := false
	if gameID == "" {
		view, err := h.service.NewGame(ctx)
		if err != nil {
			log.Error().Err(err).Msg("create game failed")
			http.Error(w, "could not create game", http.StatusInternalServerError)
			return
		}
		gameID = view.GameID
		owned = true
	}

	updates, cancel, err := h.service.Subscribe(ctx, gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()
	if owned {
		defer h.service.Discard(context.Background(), gameID)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()
	log.Debug().Str("game_id", gameID).Bool("owned", owned).Msg("ws client connected")

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not allow concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("game_id", gameID).Msg("ws write failed")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					// Game discarded elsewhere; unblock the reader.
					_ = conn.Close()
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			_, err = h.service.Start(ctx, gameID)
		case "restart":
			_, err = h.service.Restart(ctx, gameID)
		case "answer":
			var payload answerPayload
			if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil || payload.Option == nil {
				reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			_, err = h.service.SelectAnswer(ctx, gameID, *payload.Option)
		default:
			reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
			continue
		}
		if err != nil {
			reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
