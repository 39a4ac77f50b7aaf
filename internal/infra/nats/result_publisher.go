package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coding-quiz-game/internal/domain"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// DefaultSubject is where finished-game results are published.
const DefaultSubject = "quiz.results"

// ResultPublisher publishes finished-game results as JSON on a NATS subject.
// It implements app.ResultSink.
type ResultPublisher struct {
	nc      *nats.Conn
	subject string
}

// Connect dials NATS with reconnect handling and returns a publisher.
func Connect(url, subject string) (*ResultPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("coding-quiz-game"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewResultPublisher(nc, subject), nil
}

func NewResultPublisher(nc *nats.Conn, subject string) *ResultPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &ResultPublisher{nc: nc, subject: subject}
}

func (p *ResultPublisher) RecordResult(_ context.Context, result domain.GameResult) error {
	msg, err := resultMessage(p.subject, result)
	if err != nil {
		return err
	}
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *ResultPublisher) Close() error {
	return p.nc.Drain()
}

func resultMessage(subject string, result domain.GameResult) (*nats.Msg, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Game-Id", result.GameID)
	msg.Header.Set("Bank-Id", result.BankID)
	return msg, nil
}
