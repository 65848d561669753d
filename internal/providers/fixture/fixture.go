package fixture

import (
	"context"
	"fmt"
	"sync"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

const providerName = "fixture"

// DemoUserID owns the seeded collections.
const DemoUserID = "demo-user"

// Collection is one seeded collection.
type Collection struct {
	ID    string
	Name  string
	Games []collections.GameSummary
}

// Provider serves collections from memory. Useful for local testing and bootstrapping.
type Provider struct {
	mu    sync.RWMutex
	owned map[string]map[string]*Collection
}

// New creates a fixture provider seeded with the demo collections.
func New() *Provider {
	p := NewEmpty()
	for _, c := range DemoCollections() {
		p.Put(DemoUserID, c)
	}
	return p
}

// NewEmpty creates a fixture provider with no collections.
func NewEmpty() *Provider {
	return &Provider{owned: make(map[string]map[string]*Collection)}
}

// DemoCollections returns a deterministic set of example collections.
func DemoCollections() []Collection {
	return []Collection{
		{
			ID:   "favorites",
			Name: "Favorites",
			Games: []collections.GameSummary{
				{Slug: "halo", Name: "Halo", CoverURL: "/halo.jpg"},
				{Slug: "hades", Name: "Hades"},
				{Slug: "celeste", Name: "Celeste", CoverURL: "/celeste.jpg"},
			},
		},
		{
			ID:   "backlog",
			Name: "Backlog",
		},
	}
}

// Put stores a copy of the collection for the user, replacing any existing one.
func (p *Provider) Put(userID string, c Collection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	byID, ok := p.owned[userID]
	if !ok {
		byID = make(map[string]*Collection)
		p.owned[userID] = byID
	}
	cp := c
	cp.Games = append([]collections.GameSummary(nil), c.Games...)
	byID[c.ID] = &cp
}

// FetchCollection returns the stored collection in insertion order.
func (p *Provider) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	if err := ctx.Err(); err != nil {
		return collections.View{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	c, err := p.lookupLocked(key, "fetch_collection")
	if err != nil {
		return collections.View{}, err
	}
	return collections.View{
		CollectionName: c.Name,
		Games:          append([]collections.GameSummary{}, c.Games...),
	}, nil
}

// RemoveGame drops the game from the stored collection.
func (p *Provider) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	if err := ctx.Err(); err != nil {
		return collections.RemoveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return collections.RemoveResponse{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.lookupLocked(req.Key(), "remove_game")
	if err != nil {
		return collections.RemoveResponse{}, err
	}
	for i, g := range c.Games {
		if g.Slug == req.Slug {
			c.Games = append(c.Games[:i:i], c.Games[i+1:]...)
			return collections.RemoveResponse{
				Message: fmt.Sprintf("%s removed from %s", g.Name, c.Name),
			}, nil
		}
	}
	return collections.RemoveResponse{}, &providers.UpstreamError{
		Provider: providerName,
		Op:       "remove_game",
		Message:  "Game is not in this collection",
		Err:      providers.ErrNotFound,
	}
}

func (p *Provider) lookupLocked(key collections.Key, op string) (*Collection, error) {
	c, ok := p.owned[key.UserID][key.CollectionID]
	if !ok {
		return nil, &providers.UpstreamError{
			Provider: providerName,
			Op:       op,
			Message:  "Collection not found",
			Err:      providers.ErrNotFound,
		}
	}
	return c, nil
}
