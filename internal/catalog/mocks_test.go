package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lumina/internal/database"
	"lumina/internal/insight"
)

type fakeStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	writes int
	fail   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string][]byte)}
}

func (f *fakeStore) GetBlob(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrNotFound, key)
	}
	return v, nil
}

func (f *fakeStore) PutSnapshot(ctx context.Context, blobs map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for k, v := range blobs {
		f.blobs[k] = v
	}
	f.writes++
	return nil
}

func (f *fakeStore) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

type fakeResources struct {
	mu       sync.Mutex
	data     map[string][]byte
	released []string
}

func (f *fakeResources) Release(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, id)
	return nil
}

func (f *fakeResources) ReadAll(id string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.data[id]
	if !ok {
		return nil, "", errors.New("no such handle")
	}
	return d, "image/jpeg", nil
}

type countingGateway struct {
	mu    sync.Mutex
	calls int
	refs  []insight.MediaRef
	reply string
}

func (g *countingGateway) DescribeMedia(_ context.Context, ref insight.MediaRef) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.refs = append(g.refs, ref)
	return g.reply
}

func (g *countingGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
