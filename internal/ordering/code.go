package ordering

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// CodeReserver records an order code so it is not handed out twice to the
// same restaurant on the same day. Reserve returns false if the code is taken.
type CodeReserver interface {
	Reserve(ctx context.Context, restaurantID int64, code string) (bool, error)
}

// CodeGenerator produces the short display codes staff read out to
// customers: one uppercase letter and three digits. Codes are cosmetic and
// not unique on their own.
type CodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCodeGenerator creates a generator over src. A nil src seeds from the clock.
func NewCodeGenerator(src rand.Source) *CodeGenerator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>32|now<<32)
	}
	return &CodeGenerator{rnd: rand.New(src)}
}

// Generate returns a new code such as "K417".
func (g *CodeGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	letter := rune('A' + g.rnd.IntN(26))
	digits := 100 + g.rnd.IntN(900)
	return fmt.Sprintf("%c%d", letter, digits)
}
