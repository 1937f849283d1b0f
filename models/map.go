package models

import "time"

const (
	FileTypeImage = "image"
	FileTypePDF   = "pdf"
)

type Map struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200)" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	FilePath    string    `gorm:"type:varchar(500)" json:"file"`
	FileType    string    `gorm:"type:varchar(10)" json:"file_type"`
	OwnerID     uint      `gorm:"index" json:"owner_id"`
	Owner       User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MapLayer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex:idx_layer_map_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(7);default:'#2ecc71'" json:"color"`
	MapID       uint      `gorm:"uniqueIndex:idx_layer_map_name" json:"map_id"`
	Map         Map       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	IsVisible   bool      `json:"is_visible"`
	Order       int       `gorm:"column:sort_order;default:0" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
