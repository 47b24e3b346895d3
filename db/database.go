package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stonehub/config"
	"stonehub/logger"
	"stonehub/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table owned by the application, in migration order.
var Models = []interface{}{
	&model.User{},
	&model.CommunityPost{},
	&model.Feedback{},
	&model.KDARecord{},
}

// Open 根据 DB_DRIVER 建立 GORM 数据库连接
func Open(cfg *config.Config, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// SQLite 只有一个写者：单连接让事务天然串行
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("[DB] connected", logger.String("driver", cfg.DBDriver))
	return gdb, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		return sqlite.Open(SQLiteDSN(cfg.DBPath)), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// SQLiteDSN adds the connection options every SQLite handle needs:
// a busy timeout, immediate write locks for transactions, and WAL.
func SQLiteDSN(path string) string {
	return path + "?_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL&_foreign_keys=on"
}

// Migrate creates or updates every application table.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	logger.Info("[DB] schema migrated", logger.Int("tables", len(Models)))
	return nil
}

// Close 关闭数据库连接
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
