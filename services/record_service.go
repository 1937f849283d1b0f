package services

import (
	"encoding/json"
	"time"

	"github.com/GrainArc/MarkMap/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// writeEditRecord 记录一条变更流水，序列化失败不阻塞主流程
func writeEditRecord(tx *gorm.DB, entity string, entityID, mapID uint, username, action string, oldData, newData interface{}) {
	rec := models.EditRecord{
		Entity:   entity,
		EntityID: entityID,
		MapID:    mapID,
		Username: username,
		Action:   action,
		Date:     time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
	if oldData != nil {
		if b, err := json.Marshal(oldData); err == nil {
			rec.OldData = datatypes.JSON(b)
		}
	}
	if newData != nil {
		if b, err := json.Marshal(newData); err == nil {
			rec.NewData = datatypes.JSON(b)
		}
	}
	tx.Create(&rec)
}
