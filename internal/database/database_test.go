package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/killallgit/recipe-api/internal/models"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database in a new directory", dbPath: filepath.Join(t.TempDir(), "nested", "test.db")},
		{name: "empty path", dbPath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false, nil)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NoError(t, conn.HealthCheck())
		})
	}
}

func TestDB_Close(t *testing.T) {
	conn, err := Initialize(":memory:", false, nil)
	require.NoError(t, err)

	assert.NoError(t, conn.Close())
	assert.Error(t, conn.HealthCheck(), "HealthCheck should fail after database is closed")
}

func TestDB_HealthCheckNil(t *testing.T) {
	var conn *DB
	assert.ErrorIs(t, conn.HealthCheck(), ErrNotInitialized)
	assert.NoError(t, conn.Close())
}

func TestInitialize_VerboseLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	conn, err := Initialize(":memory:", true, zap.New(core))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Migrate())

	sqlLogs := logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "gorm" }).All()
	require.NotEmpty(t, sqlLogs)
	var created bool
	for _, entry := range sqlLogs {
		if strings.Contains(entry.Message, "CREATE TABLE") {
			created = true
		}
	}
	assert.True(t, created, "expected CREATE TABLE statements in the gorm log")
}

func TestDB_MigrateRollbackStatus(t *testing.T) {
	conn, err := Initialize(":memory:", false, nil)
	require.NoError(t, err)
	defer conn.Close()

	status, err := conn.MigrationStatus()
	require.NoError(t, err)
	require.Len(t, status, len(models.AllModels()))
	for _, table := range status {
		assert.False(t, table.Exists, table.Table)
	}

	require.NoError(t, conn.Migrate())

	status, err = conn.MigrationStatus()
	require.NoError(t, err)
	tables := map[string]bool{}
	for _, table := range status {
		tables[table.Table] = table.Exists
	}
	assert.Equal(t, map[string]bool{
		"recipes":            true,
		"recipe_ingredients": true,
		"recipe_steps":       true,
	}, tables)

	// Migrating twice is harmless
	require.NoError(t, conn.Migrate())

	require.NoError(t, conn.Rollback())
	status, err = conn.MigrationStatus()
	require.NoError(t, err)
	for _, table := range status {
		assert.False(t, table.Exists, table.Table)
	}
}

func TestDB_RecipeWithChildren(t *testing.T) {
	conn, err := Initialize(":memory:", false, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Migrate())

	recipe := models.Recipe{
		Title:       "Pancakes",
		Ingredients: []models.RecipeIngredient{{Position: 1, Name: "flour", Amount: "200g"}},
		Steps:       []models.RecipeStep{{StepOrder: 1, Instruction: "Mix"}},
	}
	require.NoError(t, conn.DB.Create(&recipe).Error)

	var loaded models.Recipe
	require.NoError(t, conn.DB.Preload("Ingredients").Preload("Steps").First(&loaded, recipe.ID).Error)
	assert.Equal(t, "Pancakes", loaded.Title)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, "flour", loaded.Ingredients[0].Name)
	require.Len(t, loaded.Steps, 1)
}

func TestDB_Transaction(t *testing.T) {
	type TestRecord struct {
		gorm.Model
		Value string
	}

	conn, err := Initialize(":memory:", false, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.AutoMigrate(&TestRecord{}))

	t.Run("successful transaction", func(t *testing.T) {
		err := conn.DB.Transaction(func(tx *gorm.DB) error {
			for i := 0; i < 3; i++ {
				if err := tx.Create(&TestRecord{Value: "test"}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		assert.NoError(t, err)

		var count int64
		conn.DB.Model(&TestRecord{}).Count(&count)
		assert.Equal(t, int64(3), count)
	})

	t.Run("failed transaction rollback", func(t *testing.T) {
		var countBefore int64
		conn.DB.Model(&TestRecord{}).Count(&countBefore)

		err := conn.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&TestRecord{Value: "rollback-test"}).Error; err != nil {
				return err
			}
			return gorm.ErrInvalidTransaction
		})
		assert.Error(t, err)

		var countAfter int64
		conn.DB.Model(&TestRecord{}).Count(&countAfter)
		assert.Equal(t, countBefore, countAfter)
	})
}
