package models

import "time"

// DefaultColor POI和分类缺省使用的颜色
const DefaultColor = "#3498db"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex:idx_category_owner_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(7);default:'#3498db'" json:"color"`
	Icon        string    `gorm:"type:varchar(50);default:'marker'" json:"icon"`
	OwnerID     uint      `gorm:"uniqueIndex:idx_category_owner_name" json:"owner_id"`
	Owner       User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PointOfInterest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200)" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	MapID       uint      `gorm:"index" json:"map_id"`
	Map         Map       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  *uint     `json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	LayerID     *uint     `json:"layer_id"`
	Layer       *MapLayer `gorm:"constraint:OnDelete:SET NULL" json:"layer,omitempty"`
	// 位置为相对地图宽高的百分比，保留3位小数
	XPosition   float64   `gorm:"type:decimal(6,3)" json:"x_position"`
	YPosition   float64   `gorm:"type:decimal(6,3)" json:"y_position"`
	Icon        string    `gorm:"type:varchar(50)" json:"icon"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedBy   User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EffectiveColor POI显示颜色：自身颜色优先，其次图层颜色，最后默认色
func (p *PointOfInterest) EffectiveColor() string {
	if p.Color != "" {
		return p.Color
	}
	if p.Layer != nil && p.Layer.Color != "" {
		return p.Layer.Color
	}
	return DefaultColor
}
