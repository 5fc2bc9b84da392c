package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graamkart/graamkart-backend/pkg/migrate"
)

func TestCartMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_carts_and_favorites.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS carts",
		"CREATE UNIQUE INDEX IF NOT EXISTS carts_user_id_key ON carts (user_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS cart_items_cart_product_key ON cart_items (cart_id, product_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS favorites_user_product_key ON favorites (user_id, product_id)",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS carts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAddressMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_users_and_addresses.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no address migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)",
		"is_default BOOLEAN NOT NULL DEFAULT FALSE",
		"CHECK (address_type IN ('home', 'work', 'other'))",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}
