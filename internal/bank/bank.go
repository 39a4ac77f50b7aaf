package bank

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"coding-quiz-game/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultID is the id of the embedded coding bank.
const DefaultID = "coding"

//go:embed coding.yaml
var codingYAML []byte

// Default returns the embedded ten-question coding bank.
func Default() domain.Bank {
	b, err := Parse(codingYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded bank: %v", err))
	}
	return b
}

// Parse decodes and validates a YAML bank document.
func Parse(data []byte) (domain.Bank, error) {
	var b domain.Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return domain.Bank{}, fmt.Errorf("decode bank: %w", err)
	}
	if err := domain.ValidateBank(b); err != nil {
		return domain.Bank{}, err
	}
	return b, nil
}

// FileLoader loads a single bank from a YAML file. The file is read on every
// call; callers wrap it in a caching repository.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read bank file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return domain.Bank{}, err
	}
	if b.ID != bankID {
		return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
	}
	return b, nil
}
