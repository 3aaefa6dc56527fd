// Package testutil starts a disposable PostgreSQL for repository tests.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

var (
	sharedOnce     sync.Once
	sharedInitErr  error
	sharedPool     *dockertest.Pool
	sharedResource *dockertest.Resource
	sharedDB       *database.DB
)

// Tables lists every application table, children first.
var Tables = []string{"punch_records", "employees", "shift_windows", "users"}

// PostgresDB returns a migrated database shared by the whole test binary.
// TEST_DATABASE_URL takes precedence over a container; without either the test is skipped.
func PostgresDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	sharedOnce.Do(func() { sharedInitErr = initShared() })
	if sharedInitErr != nil {
		t.Skipf("postgres unavailable: %v", sharedInitErr)
	}
	return sharedDB
}

// Truncate empties every application table and restarts sequences.
func Truncate(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	for _, table := range Tables {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
	if _, err := db.Exec(ctx, "ALTER SEQUENCE employee_code_seq RESTART WITH 1"); err != nil {
		t.Fatalf("failed to reset employee code sequence: %v", err)
	}
}

// Purge tears down the container, if one was started. Call it from TestMain.
func Purge() {
	if sharedDB != nil {
		sharedDB.Close()
	}
	if sharedPool != nil && sharedResource != nil {
		if err := sharedPool.Purge(sharedResource); err != nil {
			slog.Warn("could not purge postgres container", "error", err)
		}
	}
	sharedDB, sharedPool, sharedResource = nil, nil, nil
}

func initShared() error {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		var err error
		dsn, err = startContainer()
		if err != nil {
			return err
		}
	}

	if err := connect(dsn); err != nil {
		return err
	}
	if err := database.RunMigrations(dsn); err != nil {
		return fmt.Errorf("failed to migrate test database: %w", err)
	}
	return nil
}

func startContainer() (string, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", fmt.Errorf("could not connect to docker: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return "", fmt.Errorf("could not reach docker: %w", err)
	}
	sharedPool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=testpass",
			"POSTGRES_USER=testuser",
			"POSTGRES_DB=timeclock_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", fmt.Errorf("could not start postgres: %w", err)
	}
	sharedResource = resource
	_ = resource.Expire(300)

	pool.MaxWait = 2 * time.Minute
	return fmt.Sprintf("postgres://testuser:testpass@%s/timeclock_test?sslmode=disable", resource.GetHostPort("5432/tcp")), nil
}

func connect(dsn string) error {
	retry := func() error {
		db, err := database.NewPostgreSQLDB(dsn)
		if err != nil {
			return err
		}
		sharedDB = db
		return nil
	}
	if sharedPool != nil {
		if err := sharedPool.Retry(retry); err != nil {
			return fmt.Errorf("could not connect to test database: %w", err)
		}
		return nil
	}
	return retry()
}
