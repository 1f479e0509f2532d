package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the PostgreSQL layout used by the postgres store.
const Schema = `
	CREATE TABLE IF NOT EXISTS restaurants (
		owner_id      TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		phone_number  TEXT NOT NULL DEFAULT '',
		opening_hours TEXT NOT NULL DEFAULT '',
		gstin         TEXT NOT NULL DEFAULT '',
		fssai         TEXT NOT NULL DEFAULT '',
		rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
		address       JSONB,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL REFERENCES restaurants(owner_id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL CHECK (price > 0),
		ratings     DOUBLE PRECISION NOT NULL DEFAULT 0,
		discounts   DOUBLE PRECISION NOT NULL DEFAULT 0,
		image_link  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_menu_items_owner_id ON menu_items(owner_id, created_at);
`

const (
	restaurantColumns = `owner_id, name, phone_number, opening_hours, gstin, fssai, rating, address`
	menuItemColumns   = `id, name, description, price, ratings, discounts, image_link`
)

// postgresStore implements RemoteStore directly on PostgreSQL.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed remote store.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) RemoteStore {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}
}

// CreateSchema creates the tables used by the postgres store if they do not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetRestaurant reads the restaurant owned by the session owner.
func (p *postgresStore) GetRestaurant(ctx context.Context, s session.Session) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE owner_id = $1`

	r, err := scanRestaurant(p.pool.QueryRow(ctx, query, s.OwnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.logger.Debug().Str("owner_id", s.OwnerID).Msg("restaurant not found")
			return nil, fmt.Errorf("get restaurant: %w", ErrNotFound)
		}
		p.logger.Error().Err(err).Str("owner_id", s.OwnerID).Msg("failed to query restaurant")
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}

	return r, nil
}

// GetMenu reads the menu items in creation order.
func (p *postgresStore) GetMenu(ctx context.Context, s session.Session) ([]model.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := p.pool.Query(ctx, query, s.OwnerID)
	if err != nil {
		p.logger.Error().Err(err).Str("owner_id", s.OwnerID).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		p.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// UpdateRestaurant replaces every field of the restaurant.
func (p *postgresStore) UpdateRestaurant(ctx context.Context, s session.Session, r model.Restaurant) (*model.Restaurant, error) {
	address, err := encodeAddress(r.Address)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE restaurants
		SET name = $2, phone_number = $3, opening_hours = $4, gstin = $5, fssai = $6,
			rating = $7, address = $8, updated_at = NOW()
		WHERE owner_id = $1
		RETURNING ` + restaurantColumns

	updated, err := scanRestaurant(p.pool.QueryRow(ctx, query,
		s.OwnerID, r.Name, r.PhoneNumber, r.OpeningHours, r.GSTIN, r.FSSAI, r.Rating, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update restaurant: %w", ErrNotFound)
		}
		p.logger.Error().Err(err).Str("owner_id", s.OwnerID).Msg("failed to update restaurant")
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}

	p.logger.Debug().Str("owner_id", s.OwnerID).Msg("restaurant updated")
	return updated, nil
}

// DeleteRestaurant removes the restaurant and, by cascade, its menu.
func (p *postgresStore) DeleteRestaurant(ctx context.Context, s session.Session) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM restaurants WHERE owner_id = $1`, s.OwnerID)
	if err != nil {
		p.logger.Error().Err(err).Str("owner_id", s.OwnerID).Msg("failed to delete restaurant")
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete restaurant: %w", ErrNotFound)
	}

	p.logger.Info().Str("owner_id", s.OwnerID).Msg("restaurant deleted")
	return nil
}

// CreateMenuItem inserts item under a new id and returns the stored row.
func (p *postgresStore) CreateMenuItem(ctx context.Context, s session.Session, item model.MenuItem) (*model.MenuItem, error) {
	query := `
		INSERT INTO menu_items (id, owner_id, name, description, price, ratings, discounts, image_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + menuItemColumns

	id := uuid.NewString()
	created, err := scanMenuItem(p.pool.QueryRow(ctx, query,
		id, s.OwnerID, item.Name, item.Description, item.Price, item.Ratings, item.Discounts, item.ImageLink))
	if err != nil {
		p.logger.Error().Err(err).Str("owner_id", s.OwnerID).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	p.logger.Debug().Str("owner_id", s.OwnerID).Str("item_id", id).Msg("menu item created")
	return created, nil
}

// UpdateMenuItem replaces every field of the item except its id.
func (p *postgresStore) UpdateMenuItem(ctx context.Context, s session.Session, itemID string, item model.MenuItem) (*model.MenuItem, error) {
	query := `
		UPDATE menu_items
		SET name = $3, description = $4, price = $5, ratings = $6, discounts = $7, image_link = $8
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + menuItemColumns

	updated, err := scanMenuItem(p.pool.QueryRow(ctx, query,
		s.OwnerID, itemID, item.Name, item.Description, item.Price, item.Ratings, item.Discounts, item.ImageLink))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update menu item %s: %w", itemID, ErrNotFound)
		}
		p.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to update menu item")
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	return updated, nil
}

// DeleteMenuItem removes the item with the given id.
func (p *postgresStore) DeleteMenuItem(ctx context.Context, s session.Session, itemID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM menu_items WHERE owner_id = $1 AND id = $2`, s.OwnerID, itemID)
	if err != nil {
		p.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete menu item %s: %w", itemID, ErrNotFound)
	}
	return nil
}

func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	var r model.Restaurant
	var address []byte
	if err := row.Scan(&r.ID, &r.Name, &r.PhoneNumber, &r.OpeningHours, &r.GSTIN, &r.FSSAI, &r.Rating, &address); err != nil {
		return nil, err
	}
	if address != nil {
		var a model.Address
		if err := json.Unmarshal(address, &a); err != nil {
			return nil, fmt.Errorf("failed to decode address: %w", err)
		}
		r.Address = &a
	}
	return &r, nil
}

func scanMenuItem(row pgx.Row) (*model.MenuItem, error) {
	var m model.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Ratings, &m.Discounts, &m.ImageLink); err != nil {
		return nil, err
	}
	return &m, nil
}

// encodeAddress returns the JSONB parameter for a, NULL when a is nil.
func encodeAddress(a *model.Address) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode address: %w", err)
	}
	return string(b), nil
}
