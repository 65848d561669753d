package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	providerName = "database"
	opFetch      = "fetch_collection"
	opRemove     = "remove_game"
)

var (
	ErrCollectionNotFound  = fmt.Errorf("collection %w", providers.ErrNotFound)
	ErrGameNotInCollection = fmt.Errorf("game %w", providers.ErrNotFound)
	ErrUnsupportedDriver   = errors.New("unsupported database driver")
)

// NewCollection describes a collection to insert. An empty ID gets a generated one.
type NewCollection struct {
	ID     string
	UserID string
	Name   string
}

// Store keeps collections in sqlite or postgres and serves them as a provider.
type Store struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
	now    func() time.Time
}

var (
	_ providers.CollectionProvider = (*Store)(nil)
	_ providers.Pinger             = (*Store)(nil)
)

// Open connects to the database and applies pending migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var placeholder sq.PlaceholderFormat
	switch driver {
	case DriverSQLite:
		placeholder = sq.Question
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on"
		}
	case DriverPostgres:
		placeholder = sq.Dollar
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		now:    time.Now,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateCollection inserts an empty collection and returns its id.
func (s *Store) CreateCollection(ctx context.Context, c NewCollection) (string, error) {
	if strings.TrimSpace(c.UserID) == "" || strings.TrimSpace(c.Name) == "" {
		return "", collections.ErrInvalidRequest
	}
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	query, args, err := s.sb.
		Insert("collections").
		Columns("id", "user_id", "name", "created_at").
		Values(id, c.UserID, c.Name, s.now().UTC()).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert collection: %w", err)
	}
	return id, nil
}

// AddGame appends a game to the end of a collection.
func (s *Store) AddGame(ctx context.Context, collectionID string, game collections.GameSummary) error {
	if game.Slug == "" || game.Name == "" {
		return collections.ErrInvalidRequest
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := s.sb.
		Select("COALESCE(MAX(position), -1)").
		From("collection_games").
		Where(sq.Eq{"collection_id": collectionID}).
		ToSql()
	if err != nil {
		return err
	}
	var last int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		return fmt.Errorf("read position: %w", err)
	}

	query, args, err = s.sb.
		Insert("collection_games").
		Columns("collection_id", "slug", "name", "cover_url", "position").
		Values(collectionID, game.Slug, game.Name, game.CoverURL, last+1).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return tx.Commit()
}

// FetchCollection returns the collection owned by key.UserID with games in insertion order.
func (s *Store) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	if !key.Valid() {
		return collections.View{}, collections.ErrInvalidRequest
	}
	name, err := s.collectionName(ctx, key, opFetch)
	if err != nil {
		return collections.View{}, err
	}

	query, args, err := s.sb.
		Select("slug", "name", "cover_url").
		From("collection_games").
		Where(sq.Eq{"collection_id": key.CollectionID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return collections.View{}, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return collections.View{}, s.wrap(opFetch, err)
	}
	defer rows.Close()

	view := collections.View{CollectionName: name, Games: []collections.GameSummary{}}
	for rows.Next() {
		var g collections.GameSummary
		if err := rows.Scan(&g.Slug, &g.Name, &g.CoverURL); err != nil {
			return collections.View{}, s.wrap(opFetch, err)
		}
		view.Games = append(view.Games, g)
	}
	if err := rows.Err(); err != nil {
		return collections.View{}, s.wrap(opFetch, err)
	}
	return view, nil
}

// RemoveGame deletes one game from a collection the user owns.
func (s *Store) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	if err := req.Validate(); err != nil {
		return collections.RemoveResponse{}, err
	}
	collectionName, err := s.collectionName(ctx, req.Key(), opRemove)
	if err != nil {
		return collections.RemoveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return collections.RemoveResponse{}, s.wrap(opRemove, err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := s.sb.
		Select("name").
		From("collection_games").
		Where(sq.Eq{"collection_id": req.CollectionID, "slug": req.Slug}).
		ToSql()
	if err != nil {
		return collections.RemoveResponse{}, err
	}
	var gameName string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&gameName)
	if errors.Is(err, sql.ErrNoRows) {
		return collections.RemoveResponse{}, notInCollection()
	}
	if err != nil {
		return collections.RemoveResponse{}, s.wrap(opRemove, err)
	}

	query, args, err = s.sb.
		Delete("collection_games").
		Where(sq.Eq{"collection_id": req.CollectionID, "slug": req.Slug}).
		ToSql()
	if err != nil {
		return collections.RemoveResponse{}, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return collections.RemoveResponse{}, s.wrap(opRemove, err)
	}
	// another remover may have deleted the row since the select
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return collections.RemoveResponse{}, notInCollection()
	}
	if err := tx.Commit(); err != nil {
		return collections.RemoveResponse{}, s.wrap(opRemove, err)
	}
	return collections.RemoveResponse{
		Message: fmt.Sprintf("%s removed from %s", gameName, collectionName),
	}, nil
}

func notInCollection() error {
	return &providers.UpstreamError{
		Provider: providerName,
		Op:       opRemove,
		Message:  "Game is not in this collection",
		Err:      ErrGameNotInCollection,
	}
}

func (s *Store) collectionName(ctx context.Context, key collections.Key, op string) (string, error) {
	query, args, err := s.sb.
		Select("name").
		From("collections").
		Where(sq.Eq{"id": key.CollectionID, "user_id": key.UserID}).
		ToSql()
	if err != nil {
		return "", err
	}
	var name string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &providers.UpstreamError{
			Provider: providerName,
			Op:       op,
			Message:  "Collection not found",
			Err:      ErrCollectionNotFound,
		}
	}
	if err != nil {
		return "", s.wrap(op, err)
	}
	return name, nil
}

func (s *Store) wrap(op string, err error) error {
	return &providers.UpstreamError{
		Provider: providerName,
		Op:       op,
		Message:  "The collection database is unavailable.",
		Err:      fmt.Errorf("%s: %w", s.driver, err),
	}
}
