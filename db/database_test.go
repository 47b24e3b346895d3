package db

import (
	"context"
	"path/filepath"
	"testing"

	"stonehub/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "nested", "stone.db"),
	}

	gdb, err := Open(cfg, gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { Close(gdb) })

	require.NoError(t, Migrate(gdb))
	// 重复迁移应当是幂等的
	require.NoError(t, Migrate(gdb))

	for _, table := range []string{"users", "community_posts", "feedback", "kda_progress"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
	assert.True(t, gdb.Migrator().HasIndex("kda_progress", "idx_kda_user_game"))
	assert.True(t, gdb.Migrator().HasColumn("kda_progress", "assists5"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"}, gormlogger.Silent)
	assert.Error(t, err)
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestConnectAndCheckRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisHost: mr.Host(), RedisPort: mr.Port()}

	client, err := ConnectRedis(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, CheckRedis(context.Background(), client))
	assert.False(t, mr.Exists("stonehub:healthcheck"))
}
