package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riderhub/riderhub-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, got %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestEnumMigrationIncludesCounties(t *testing.T) {
	content := readMigration(t, "create_enum_types")
	assertContains(t, content, []string{
		"CREATE TYPE user_type AS ENUM",
		"'technician_manager'",
		"CREATE TYPE product_category AS ENUM",
		"'riding_pants'",
		"'Murang''a'",
		"'Nairobi'",
		"DROP TYPE IF EXISTS county",
	})
}

func TestProductMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_products"), []string{
		"price NUMERIC(10,2) NOT NULL",
		"FOREIGN KEY (supplier_id) REFERENCES users(id) ON DELETE SET NULL",
		"CONSTRAINT chk_products_price CHECK (price >= 0)",
		"CONSTRAINT chk_products_stock CHECK (stock_quantity >= 0)",
		"DROP TABLE IF EXISTS products",
	})
}

func TestOrderMigrationCascades(t *testing.T) {
	assertContains(t, readMigration(t, "create_carts_and_orders"), []string{
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE SET NULL",
		"FOREIGN KEY (user_address_id) REFERENCES user_addresses(id) ON DELETE SET NULL",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity >= 1)",
	})
}

func TestRentalMigrationPreservesHistory(t *testing.T) {
	assertContains(t, readMigration(t, "create_rentals_and_fines"), []string{
		"FOREIGN KEY (staff_id) REFERENCES users(id) ON DELETE SET NULL",
		"FOREIGN KEY (fine_id) REFERENCES fines(id) ON DELETE SET NULL",
		"FOREIGN KEY (rental_id) REFERENCES rentals(id) ON DELETE CASCADE",
		"CHECK (rent_end > rent_start)",
	})
}

func TestBookingAndServiceMigrationSetNull(t *testing.T) {
	assertContains(t, readMigration(t, "create_services_and_bookings"), []string{
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL",
		"FOREIGN KEY (assigned_to) REFERENCES users(id) ON DELETE SET NULL",
		"FOREIGN KEY (service_id) REFERENCES services(id) ON DELETE CASCADE",
	})
}

func TestFeedbackMigrationBoundsRating(t *testing.T) {
	assertContains(t, readMigration(t, "create_feedbacks_reports_contacts"), []string{
		"CHECK (rating >= 1 AND rating <= 5)",
		"content TEXT NOT NULL DEFAULT '{}'",
		"CREATE TABLE IF NOT EXISTS contacts",
	})
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected error for empty dir")
	}

	bad := filepath.Join(dir, "20260101000000_bad.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected error for missing Down section")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Rider Notes!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_rider_notes.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestCreateSQLMigrationAvoidsVersionCollision(t *testing.T) {
	dir := t.TempDir()
	first, err := migrate.CreateSQLMigration(dir, "rider notes")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := migrate.CreateSQLMigration(dir, "rider notes")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if filepath.Base(first)[:14] == filepath.Base(second)[:14] {
		t.Fatalf("expected distinct versions, got %s and %s", first, second)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migrations should validate: %v", err)
	}
}

func TestCreateSQLMigrationRejectsUnusableName(t *testing.T) {
	if _, err := migrate.CreateSQLMigration(t.TempDir(), " !! "); err == nil {
		t.Fatalf("expected error for name without letters or digits")
	}
}
