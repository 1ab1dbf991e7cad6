// Package generator builds interview question sets.
package generator

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuiview/internal/model"
)

//go:embed bank.yaml
var defaultBankYAML []byte

// ErrEmptyBank is returned when a difficulty has no usable templates.
var ErrEmptyBank = errors.New("question bank is empty")

// Bank holds question templates keyed by difficulty.
type Bank struct {
	Category string   `yaml:"category"`
	Easy     []string `yaml:"easy"`
	Medium   []string `yaml:"medium"`
	Hard     []string `yaml:"hard"`
}

// Templates returns the templates for a difficulty.
func (b Bank) Templates(d model.Difficulty) []string {
	switch d {
	case model.Easy:
		return b.Easy
	case model.Medium:
		return b.Medium
	case model.Hard:
		return b.Hard
	default:
		return nil
	}
}

// DefaultBank returns the built-in full stack question bank.
func DefaultBank() (Bank, error) {
	return parseBank(defaultBankYAML)
}

// LoadBank reads a YAML question bank from the provided file path.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, err
	}
	return parseBank(data)
}

func parseBank(data []byte) (Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return Bank{}, fmt.Errorf("failed to decode question bank: %w", err)
	}
	bank.Easy = cleanTemplates(bank.Easy)
	bank.Medium = cleanTemplates(bank.Medium)
	bank.Hard = cleanTemplates(bank.Hard)
	bank.Category = strings.TrimSpace(bank.Category)
	return bank, nil
}

func cleanTemplates(in []string) []string {
	out := make([]string, 0, len(in))
	for _, line := range in {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func validateBank(bank Bank) error {
	for _, d := range model.Difficulties {
		if len(bank.Templates(d)) == 0 {
			return fmt.Errorf("%w: no %s templates", ErrEmptyBank, d)
		}
	}
	return nil
}
