package providers

import (
	"context"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
)

//go:generate mockgen -source=provider.go -destination=mocks/provider_mock.go -package=mocks

// CollectionProvider is the remote source of collection data.
// Failures should carry a human-readable message (see Message).
type CollectionProvider interface {
	FetchCollection(ctx context.Context, key collections.Key) (collections.View, error)
	RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error)
}

// Pinger is implemented by providers that can report their own readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
