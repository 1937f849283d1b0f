package models

import "time"

// 分享权限级别
const (
	PermView  = "view"
	PermEdit  = "edit"
	PermAdmin = "admin"
)

type SharedMap struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MapID        uint      `gorm:"uniqueIndex:idx_share_map_user" json:"map_id"`
	Map          Map       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SharedWithID uint      `gorm:"uniqueIndex:idx_share_map_user" json:"shared_with_id"`
	SharedWith   User      `gorm:"foreignKey:SharedWithID;constraint:OnDelete:CASCADE" json:"-"`
	SharedByID   uint      `json:"shared_by_id"`
	SharedBy     User      `gorm:"foreignKey:SharedByID;constraint:OnDelete:CASCADE" json:"-"`
	Permission   string    `gorm:"type:varchar(10);default:'view'" json:"permission"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidPermission 校验分享级别取值
func ValidPermission(p string) bool {
	return p == PermView || p == PermEdit || p == PermAdmin
}
