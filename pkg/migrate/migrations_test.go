package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestSalesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_sales_records.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales_records",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_day_shop ON sales_records (date, shop_id)",
		"CHECK (pesanan >= 0)",
		"DROP TABLE IF EXISTS sales_records",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCompletionMigrationEnforcesToggleKey(t *testing.T) {
	content := readMigration(t, "*_create_task_completions.sql")

	if !strings.Contains(content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_completion_task_shop_day ON task_completions (task_id, shop_id, date)") {
		t.Error("missing composite unique index on (task_id, shop_id, date)")
	}
}

func TestCreateSQLMigrationTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Pricing Columns!")
	if err != nil {
		t.Fatalf("CreateSQLMigration returned error: %v", err)
	}
	if !strings.HasSuffix(path, "_add_pricing_columns.sql") {
		t.Fatalf("unexpected filename %q", path)
	}

	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration failed validation: %v", err)
	}
}
