package testutil

import (
	"strings"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
)

// SampleGame returns a game summary whose name is the title-cased slug.
func SampleGame(slug string) collections.GameSummary {
	name := slug
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return collections.GameSummary{Slug: slug, Name: name}
}

// SampleView builds a view holding one game per slug, in order.
func SampleView(collectionName string, slugs ...string) collections.View {
	games := make([]collections.GameSummary, 0, len(slugs))
	for _, slug := range slugs {
		games = append(games, SampleGame(slug))
	}
	return collections.View{CollectionName: collectionName, Games: games}
}
