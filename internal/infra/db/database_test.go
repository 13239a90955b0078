package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecovekt/backend/config"
	"github.com/ecovekt/backend/internal/integration/persistence/model"
)

func TestNewConnection_SQLite(t *testing.T) {
	database, err := NewConnection(&config.DatabaseConfig{
		Driver:          DriverSQLite,
		URL:             "file::memory:",
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)

	assert.True(t, database.HealthCheck())
	require.NoError(t, database.AutoMigrate(&model.DocumentModel{}))
	assert.True(t, database.DB().Migrator().HasTable("documents"))

	require.NoError(t, database.Close())
	assert.False(t, database.HealthCheck())
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
