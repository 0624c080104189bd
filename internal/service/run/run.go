package run

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type Generator struct {
	counter uint64
}

func New() *Generator {
	return &Generator{}
}

// Next returns a run ID scoped to interactionId. An empty interactionId gets
// a fresh UUID.
func (g *Generator) Next(interactionId string) (string, string) {
	if interactionId == "" {
		interactionId = uuid.NewString()
	}
	n := atomic.AddUint64(&g.counter, 1)
	return interactionId, fmt.Sprintf("%s-run-%d", interactionId, n)
}
