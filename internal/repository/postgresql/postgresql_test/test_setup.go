package postgresqltest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
)

// TestDatabaseSetup holds a connection to the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.migrate(context.Background()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
	t.Cleanup(db.Close)
	return setup
}

func (t *TestDatabaseSetup) migrate(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.up.sql")

	schema, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = t.DB.Exec(ctx, string(schema))
	return err
}

// TruncateAllTables removes all rows from every table
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendances",
		"leave_request_reviews",
		"leave_requests",
		"user_roles",
		"users",
		"work_sites",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedUser inserts a user with roles and an optional work site.
func (t *TestDatabaseSetup) SeedUser(ctx context.Context, name string, siteID *string, roles ...string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx,
		`INSERT INTO users (name, email, work_site_id) VALUES ($1, $2, $3) RETURNING id`,
		name, name+"@sekolah.test", siteID,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	for i, role := range roles {
		if _, err := t.DB.Exec(ctx, `INSERT INTO user_roles (user_id, role, position) VALUES ($1, $2, $3)`, id, role, i); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (t *TestDatabaseSetup) SeedWorkSite(ctx context.Context, lat, lon, radius float64) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx,
		`INSERT INTO work_sites (name, latitude, longitude, radius_meters) VALUES ('Kampus', $1, $2, $3) RETURNING id`,
		lat, lon, radius,
	).Scan(&id)
	return id, err
}
