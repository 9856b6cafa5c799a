package order

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var ErrNumberExhausted = errors.New("no order numbers left for this day")

const numberSpace = 10000

// NewNumber formats ORD-DDMMYYYY-NNNN.
func NewNumber(t time.Time, suffix int) string {
	return fmt.Sprintf("ORD-%s-%04d", t.Format("02012006"), suffix%numberSpace)
}

// Numberer draws random suffixes and checks them against numbers already
// issued. After a few collisions it walks the suffix space from a random
// start, so it only fails once all 10,000 numbers of the day are used.
type Numberer struct {
	Intn     func(n int) int
	Attempts int
}

func NewNumberer() *Numberer {
	return &Numberer{Intn: rand.Intn, Attempts: 8}
}

func (n *Numberer) Next(t time.Time, taken func(string) bool) (string, error) {
	for i := 0; i < n.Attempts; i++ {
		no := NewNumber(t, n.Intn(numberSpace))
		if !taken(no) {
			return no, nil
		}
	}
	start := n.Intn(numberSpace)
	for i := 0; i < numberSpace; i++ {
		no := NewNumber(t, start+i)
		if !taken(no) {
			return no, nil
		}
	}
	return "", ErrNumberExhausted
}
