// Package generator builds interview question sets.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/tuiview/internal/model"
)

const defaultCategory = "General"

// Slots is the fixed difficulty pattern of every interview.
var Slots = []model.Difficulty{
	model.Easy,
	model.Easy,
	model.Medium,
	model.Medium,
	model.Hard,
	model.Hard,
}

// Generator produces randomized question sets.
type Generator struct {
	bank Bank
	rnd  *rand.Rand
}

// New returns a Generator seeded with the current time.
func New(bank Bank) (*Generator, error) {
	return NewWithRand(bank, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator drawing from rnd. The bank must have at
// least one template per difficulty.
func NewWithRand(bank Bank, rnd *rand.Rand) (*Generator, error) {
	if err := validateBank(bank); err != nil {
		return nil, err
	}
	if bank.Category == "" {
		bank.Category = defaultCategory
	}
	return &Generator{bank: bank, rnd: rnd}, nil
}

// Generate selects one template per slot uniformly, with replacement.
func (g *Generator) Generate() []model.Question {
	result := make([]model.Question, 0, len(Slots))
	for i, d := range Slots {
		templates := g.bank.Templates(d)
		result = append(result, model.Question{
			ID:         fmt.Sprintf("q-%d", i+1),
			Text:       templates[g.rnd.Intn(len(templates))],
			Difficulty: d,
			TimeLimit:  d.TimeLimit(),
			Category:   g.bank.Category,
		})
	}
	return result
}
