package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game id does not match a live game.
	ErrGameNotFound = errors.New("game not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank indicates a loaded bank failed validation.
	ErrInvalidBank = errors.New("invalid question bank")
)
