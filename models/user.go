package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex" json:"username"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`
	IsSuperuser  bool   `gorm:"default:false" json:"is_superuser"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken 登录令牌，一个用户一个
type AuthToken struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"type:varchar(64);uniqueIndex"`
	UserID    uint   `gorm:"uniqueIndex"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// UserProfile 用户资料，用户创建后同步生成
type UserProfile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"uniqueIndex" json:"user_id"`
	User      User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bio       string `gorm:"type:varchar(500)" json:"bio"`
	Location  string `gorm:"type:varchar(100)" json:"location"`
	Website   string `gorm:"type:varchar(200)" json:"website"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserMinimal 嵌套返回时的精简用户信息
type UserMinimal struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Minimal() UserMinimal {
	return UserMinimal{ID: u.ID, Username: u.Username, Email: u.Email}
}
