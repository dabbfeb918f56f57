package db

import (
	"context"
	"testing"

	"skill-swap/config"
	"skill-swap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "mysql",
			cfg:  config.DatabaseConfig{Driver: "mysql", Username: "u", Password: "p", Host: "h", Port: 3306, Database: "d", Charset: "utf8mb4"},
			want: "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "postgres",
			cfg:  config.DatabaseConfig{Driver: "postgres", Username: "u", Password: "p", Host: "h", Port: 5432, Database: "d", SSLMode: "disable"},
			want: "host=h port=5432 user=u password=p dbname=d sslmode=disable",
		},
		{
			name: "sqlite",
			cfg:  config.DatabaseConfig{Driver: "sqlite", Database: "file::memory:"},
			want: "file::memory:",
		},
		{
			name: "explicit dsn wins",
			cfg:  config.DatabaseConfig{Driver: "postgres", DSN: "postgres://x"},
			want: "postgres://x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildDSN(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDSNUnknownDriver(t *testing.T) {
	_, err := BuildDSN(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitDBSqliteAndMigrate(t *testing.T) {
	t.Cleanup(func() {
		_ = CloseDB()
		DB = nil
	})

	_, err := InitDB(config.DatabaseConfig{Driver: "sqlite", Database: "file::memory:", MaxOpen: 1})
	require.NoError(t, err)
	require.NoError(t, HealthCheck(context.Background()))
	require.NoError(t, AutoMigrate(model.All()...))

	for _, table := range []string{"users", "skills", "swap_requests", "messages", "reviews"} {
		assert.True(t, GetDB().Migrator().HasTable(table), table)
	}
}

func TestHealthCheckHonorsContext(t *testing.T) {
	t.Cleanup(func() {
		_ = CloseDB()
		DB = nil
	})
	_, err := InitDB(config.DatabaseConfig{Driver: "sqlite", Database: "file::memory:", MaxOpen: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, HealthCheck(ctx), context.Canceled)
}

func TestHealthCheckWithoutDB(t *testing.T) {
	DB = nil
	assert.Error(t, HealthCheck(context.Background()))
	assert.Error(t, AutoMigrate(&model.User{}))
	assert.NoError(t, CloseDB())
}
