package models

import "gorm.io/datatypes"

// EditRecord 变更流水，记录地图及其子资源的修改和删除前后快照
type EditRecord struct {
	ID       uint   `gorm:"primaryKey"`
	Entity   string `gorm:"type:varchar(50)"`
	EntityID uint
	MapID    uint
	Username string `gorm:"type:varchar(150)"`
	Action   string `gorm:"type:varchar(20)"`
	Date     string `gorm:"type:varchar(50)"`
	OldData  datatypes.JSON
	NewData  datatypes.JSON
}
