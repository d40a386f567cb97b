package domain

import "time"

// User 表示应用程序中的用户。绘图事件通过 DisplayName 归属到用户，
// 因此 DisplayName 必须唯一。
type User struct {
	ID          int64     `gorm:"primaryKey"`
	DisplayName string    `gorm:"type:varchar(191);uniqueIndex:idx_display_name;not null"`
	Email       string    `gorm:"type:varchar(191);uniqueIndex:idx_user_email"`
	PhotoURL    *string   `gorm:"type:varchar(512)"` // 头像地址，随光标事件一起广播
	Password    string    `gorm:"type:text;not null"` // 存储的是哈希后的密码
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定 GORM 表名。
func (User) TableName() string { return "users" }
