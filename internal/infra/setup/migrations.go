package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// 返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	// users 和 boards 表包含带长度限制的唯一索引 (VARCHAR(191))，
	// 交给结构体标签 + AutoMigrate 统一处理
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Board{},
		&domain.Stroke{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
