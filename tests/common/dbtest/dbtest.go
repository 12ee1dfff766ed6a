//go:build integration

package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	containerOnce sync.Once
	container     testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

type containerInfo struct {
	Host string
	Port nat.Port
}

// NewTestDB starts the shared Postgres container if needed, creates a fresh
// database for this test, applies the schema and returns a connected pool.
func NewTestDB(t *testing.T) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()

	info := startPostgresOnce(t)

	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, info.Host, info.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer adminPool.Close()

	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			return
		}
		defer cleanupPool.Close()
		_, _ = cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName)
	})

	dbConfig := config.DBConfig{
		Host:     info.Host,
		Port:     info.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	applySchema(t, dbConfig)

	pool, cleanup, err := db.Connect(dbConfig)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return pool, dbConfig
}

// applySchema pushes migrations/schema.sql with the atlas CLI so the test
// database always matches the declared schema, leftover state included.
func applySchema(t *testing.T, cfg config.DBConfig) {
	t.Helper()

	schemaPath, err := resolveSchemaPath()
	require.NoError(t, err)

	client, err := atlasexec.NewClient(filepath.Dir(schemaPath), "atlas")
	if err != nil {
		// Fall back to a plain apply when the atlas binary is not installed.
		applySchemaDirect(t, cfg, schemaPath)
		return
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:         url,
		To:          "file://" + filepath.Base(schemaPath),
		DevURL:      "docker://postgres/17/dev",
		AutoApprove: true,
	})
	if err != nil {
		applySchemaDirect(t, cfg, schemaPath)
	}
}

func applySchemaDirect(t *testing.T, cfg config.DBConfig, schemaPath string) {
	t.Helper()

	sqlContent, err := os.ReadFile(schemaPath)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, cleanup, err := db.Connect(cfg)
	require.NoError(t, err)
	defer cleanup()

	_, err = pool.Exec(ctx, string(sqlContent))
	require.NoError(t, err)
}

// resolveSchemaPath finds migrations/schema.sql from whatever package dir the
// test binary runs in.
func resolveSchemaPath() (string, error) {
	candidates := []string{
		"migrations/schema.sql",
		filepath.Join("..", "migrations", "schema.sql"),
		filepath.Join("..", "..", "migrations", "schema.sql"),
		filepath.Join("..", "..", "..", "migrations", "schema.sql"),
	}
	for _, cand := range candidates {
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	return "", fmt.Errorf("migrations/schema.sql not found from working directory")
}

// ResetDB truncates every table so a suite can reuse one database across
// subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx,
		"TRUNCATE credit_reservations, order_events, orders, products, staff RESTART IDENTITY CASCADE")
	return err
}

func startPostgresOnce(t *testing.T) containerInfo {
	t.Helper()

	containerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "full_page_writes=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "integration-tests"},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()

		var err error
		container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		require.NoError(t, err)
	})

	ctx := context.Background()
	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return containerInfo{Host: host, Port: mappedPort}
}
