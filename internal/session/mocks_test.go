package session

import (
	"context"
	"sync"

	"lumina/internal/database"
	"lumina/internal/insight"
)

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (m *memStore) GetBlob(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (m *memStore) PutSnapshot(_ context.Context, blobs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs == nil {
		m.blobs = make(map[string][]byte)
	}
	for k, v := range blobs {
		m.blobs[k] = v
	}
	return nil
}

// gatedGateway answers "caption for <id>" and blocks ids that have a gate
// until the gate is closed.
type gatedGateway struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls map[string]int
}

func newGatedGateway() *gatedGateway {
	return &gatedGateway{
		gates: make(map[string]chan struct{}),
		calls: make(map[string]int),
	}
}

func (g *gatedGateway) gate(id string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[id] = ch
	return ch
}

func (g *gatedGateway) DescribeMedia(ctx context.Context, ref insight.MediaRef) string {
	g.mu.Lock()
	g.calls[ref.ID]++
	gate := g.gates[ref.ID]
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return insight.FallbackDescription
		}
	}
	return "caption for " + ref.ID
}

func (g *gatedGateway) Calls(id string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[id]
}
