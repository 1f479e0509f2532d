// Command seed fills the console database with a sample restaurant and
// menu, and can publish a sample order event on the notification channel.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"restaurant-console/internal/config"
	"restaurant-console/internal/database"
	"restaurant-console/internal/model"
	"restaurant-console/internal/notification"
	"restaurant-console/internal/session"
	"restaurant-console/internal/store"

	"github.com/google/uuid"
)

func main() {
	owner := flag.String("owner", "", "owner id to seed (defaults to SESSION_OWNER_ID)")
	notify := flag.Bool("notify", false, "publish a sample order event after seeding")
	flag.Parse()

	if err := run(*owner, *notify); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(owner string, notify bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if owner == "" {
		owner = cfg.Auth.OwnerID
	}
	if owner == "" {
		return fmt.Errorf("owner id is required: pass -owner or set SESSION_OWNER_ID")
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	dbCfg := cfg.Database
	dbCfg.AutoMigrate = true
	pool, err := database.NewPool(ctx, dbCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		INSERT INTO restaurants (owner_id, name, phone_number, opening_hours, rating)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id) DO NOTHING`,
		owner, "Saffron House", "9876543210", "11:00-23:00", 4.3)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}

	st := store.NewPostgresStore(pool, logger)
	sess := session.Session{OwnerID: owner}

	restaurant, err := st.GetRestaurant(ctx, sess)
	if err != nil {
		return fmt.Errorf("failed to read restaurant: %w", err)
	}
	restaurant.Address = &model.Address{
		StreetAddress: "12 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
		Landmark:      "Opposite the metro station",
	}
	if _, err := st.UpdateRestaurant(ctx, sess, *restaurant); err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	existing, err := st.GetMenu(ctx, sess)
	if err != nil {
		return fmt.Errorf("failed to read menu: %w", err)
	}
	if len(existing) == 0 {
		items := []model.MenuItem{
			{Name: "Masala Dosa", Description: "Crisp rice crepe with potato filling", Price: 120, Ratings: 4.6},
			{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese", Price: 240, Ratings: 4.4, Discounts: 10},
			{Name: "Filter Coffee", Description: "South Indian style", Price: 40, Ratings: 4.8},
		}
		for _, item := range items {
			if _, err := st.CreateMenuItem(ctx, sess, item); err != nil {
				return fmt.Errorf("failed to create menu item %q: %w", item.Name, err)
			}
		}
		fmt.Printf("Seeded %d menu items\n", len(items))
	} else {
		fmt.Printf("Menu already has %d items, leaving it as is\n", len(existing))
	}

	fmt.Printf("Seeded restaurant for owner %s\n", owner)

	if !notify {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"id":        uuid.NewString(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   "New order received",
		"order":     map[string]any{"total": 360.0, "items": 2},
	})
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	if err := notification.Notify(ctx, pool, cfg.Events.Channel, payload); err != nil {
		return err
	}
	fmt.Printf("Published sample order event on %s\n", cfg.Events.Channel)
	return nil
}
