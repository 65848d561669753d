package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

// StubProvider answers with fixed results and counts calls.
type StubProvider struct {
	View      collections.View
	FetchErr  error
	Remove    collections.RemoveResponse
	RemoveErr error

	fetches  atomic.Int32
	removals atomic.Int32
}

func (p *StubProvider) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	_ = ctx
	_ = key
	p.fetches.Add(1)
	if p.FetchErr != nil {
		return collections.View{}, p.FetchErr
	}
	return p.View, nil
}

func (p *StubProvider) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	_ = ctx
	_ = req
	p.removals.Add(1)
	if p.RemoveErr != nil {
		return collections.RemoveResponse{}, p.RemoveErr
	}
	return p.Remove, nil
}

// Fetches returns how many times FetchCollection ran.
func (p *StubProvider) Fetches() int { return int(p.fetches.Load()) }

// Removals returns how many times RemoveGame ran.
func (p *StubProvider) Removals() int { return int(p.removals.Load()) }

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	return collections.View{}, p.Err
}

func (p ErrProvider) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	return collections.RemoveResponse{}, p.Err
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	return collections.View{}, providers.ErrProviderUnavailable
}

func (UnavailableProvider) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	return collections.RemoveResponse{}, providers.ErrProviderUnavailable
}

// GatedProvider blocks each fetch until a value is sent on Release, letting
// tests hold a request in flight. Started receives one signal per fetch.
type GatedProvider struct {
	Release chan collections.View
	Started chan collections.Key

	mu    sync.Mutex
	calls int
}

// NewGatedProvider builds a provider with buffered channels.
func NewGatedProvider() *GatedProvider {
	return &GatedProvider{
		Release: make(chan collections.View, 8),
		Started: make(chan collections.Key, 8),
	}
}

func (p *GatedProvider) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	p.Started <- key
	select {
	case v := <-p.Release:
		return v, nil
	case <-ctx.Done():
		return collections.View{}, ctx.Err()
	}
}

func (p *GatedProvider) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	return collections.RemoveResponse{}, providers.ErrProviderUnavailable
}

// Calls returns how many fetches have started.
func (p *GatedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
