package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateBank checks the structural invariants of a bank: a non-empty id, at
// least one question, non-empty question text, exactly four non-empty options
// and a correct index inside the options.
func ValidateBank(bank Bank) error {
	if err := validate.Struct(bank); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBank, bank.ID, err)
	}
	return nil
}
