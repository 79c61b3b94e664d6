package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dsnReplacer = strings.NewReplacer("/", "_", " ", "_", "?", "_", "&", "_", "#", "_")

// NewTestDB opens a private in-memory SQLite database named after the test
// and migrates models into it. A single connection serialises writers the
// way row locks would on MySQL.
func NewTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", dsnReplacer.Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open test database")

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...), "migrate test database")
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewNode returns a snowflake node for id generation in tests.
func NewNode(t *testing.T) *snowflake.Node {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}
