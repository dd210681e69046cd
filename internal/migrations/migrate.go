package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const migrationsTable = "schema_migrations_billiards"

var logger = log.WithPrefix("migrate")

// RunMigrations applies the file migrations in dir to the Postgres database.
// A database that already holds game_sessions but has no migrate metadata is
// baselined to the newest file version first.
func RunMigrations(databaseURL, dir string) error {
	if databaseURL == "" {
		return errors.New("database URL is empty")
	}
	if dir == "" {
		dir = "migrations"
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if needsBaseline(sqlDB) {
		if latest := findLatestMigrationVersion(dir); latest > 0 {
			logger.Info("baselining existing schema", "version", latest)
			if ferr := m.Force(int(latest)); ferr != nil {
				logger.Warn("baseline failed", "version", latest, "err", ferr)
			}
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	logger.Info("migrations applied", "dir", dir)
	return nil
}

func needsBaseline(db *sql.DB) bool {
	var sessionsExist, metaExist bool
	if err := db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name='game_sessions')",
	).Scan(&sessionsExist); err != nil || !sessionsExist {
		return false
	}
	if err := db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", migrationsTable,
	).Scan(&metaExist); err != nil {
		return false
	}
	return !metaExist
}

var versionRe = regexp.MustCompile(`^0*([0-9]+)_.*\.up\.sql$`)

// findLatestMigrationVersion returns the highest numeric prefix among the
// up migrations in dir.
func findLatestMigrationVersion(dir string) int64 {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var max int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := versionRe.FindStringSubmatch(f.Name())
		if len(m) < 2 {
			continue
		}
		v, _ := strconv.ParseInt(m[1], 10, 64)
		if v > max {
			max = v
		}
	}
	return max
}
