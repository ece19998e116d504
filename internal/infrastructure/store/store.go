package store

import (
	"context"
	"fmt"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/pkg/common"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

// Store gorm 資料存取，實作 cocktail.Catalog 與 pantry.Repository
type Store struct {
	db     *gorm.DB
	policy *cocktail.SubstitutionPolicy
}

// Open 開啟資料庫並建立資料表
func Open(cfg *config.DatabaseConfig, policy *cocktail.SubstitutionPolicy) (*Store, error) {
	db, err := gorm.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite 只允許單一寫入者，記憶體資料庫也必須共用同一連線
	db.DB().SetMaxOpenConns(1)
	db.LogMode(cfg.Debug)

	s, err := New(db, policy)
	if err != nil {
		db.Close()
		return nil, err
	}

	common.LogInfo("資料庫已連線",
		zap.String("driver", cfg.Driver),
	)
	return s, nil
}

// New 以既有連線建立 Store 並執行遷移
func New(db *gorm.DB, policy *cocktail.SubstitutionPolicy) (*Store, error) {
	if err := db.AutoMigrate(allModels()...).Error; err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if policy == nil {
		policy = cocktail.DefaultSubstitutionPolicy()
	}
	return &Store{db: db, policy: policy}, nil
}

// Ping 檢查資料庫連線
func (s *Store) Ping(ctx context.Context) error {
	return s.db.DB().PingContext(ctx)
}

// Close 關閉資料庫
func (s *Store) Close() error {
	return s.db.Close()
}
