package domain

import "time"

// Board 表示一个协作画板。
// NumberOfStrokes 是已持久化笔划数的活动计数器：递增通过数据库侧的原子
// UPDATE 完成（见 BoardRepository.IncrementStrokeCount），避免应用层
// 读-改-写在并发发布者之间丢失更新；后台任务会定期与 COUNT(*) 对账。
type Board struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"type:varchar(191);uniqueIndex:idx_board_name;not null"`
	OwnerID         int64     `gorm:"index"` // 创建者用户 ID
	NumberOfStrokes int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定 GORM 表名。
func (Board) TableName() string { return "boards" }
