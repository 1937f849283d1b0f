package services

import (
	"github.com/GrainArc/MarkMap/models"
	"gorm.io/gorm"
)

// VisibilityService 计算用户能看到的地图范围：自有 ∪ 被分享 ∪ 公开
type VisibilityService struct {
	DB *gorm.DB
}

func NewVisibilityService(db *gorm.DB) *VisibilityService {
	return &VisibilityService{DB: db}
}

func (s *VisibilityService) sharedMapIDs(user *models.User) *gorm.DB {
	return s.DB.Model(&models.SharedMap{}).Select("map_id").Where("shared_with_id = ?", user.ID)
}

// VisibleMaps 可见地图查询，三类来源取并集，自动去重
func (s *VisibilityService) VisibleMaps(user *models.User) *gorm.DB {
	return s.DB.Model(&models.Map{}).
		Where("owner_id = ? OR is_public = ? OR id IN (?)", user.ID, true, s.sharedMapIDs(user))
}

// MyMaps 仅自有地图
func (s *VisibilityService) MyMaps(user *models.User) *gorm.DB {
	return s.DB.Model(&models.Map{}).Where("owner_id = ?", user.ID)
}

// SharedWithMe 仅被分享的地图（任意级别）
func (s *VisibilityService) SharedWithMe(user *models.User) *gorm.DB {
	return s.DB.Model(&models.Map{}).Where("id IN (?)", s.sharedMapIDs(user))
}

// PublicMaps 公开地图，排除自己的
func (s *VisibilityService) PublicMaps(user *models.User) *gorm.DB {
	return s.DB.Model(&models.Map{}).Where("is_public = ? AND owner_id <> ?", true, user.ID)
}

// VisibleLayers 可见图层：父地图可见即可见，可按地图过滤
func (s *VisibilityService) VisibleLayers(user *models.User, mapID *uint) *gorm.DB {
	q := s.DB.Model(&models.MapLayer{}).
		Where("map_id IN (?)", s.VisibleMaps(user).Select("id"))
	if mapID != nil {
		q = q.Where("map_id = ?", *mapID)
	}
	return q
}

// VisiblePOIs 可见兴趣点，可按地图、图层过滤
func (s *VisibilityService) VisiblePOIs(user *models.User, mapID, layerID *uint) *gorm.DB {
	q := s.DB.Model(&models.PointOfInterest{}).
		Where("point_of_interests.map_id IN (?)", s.VisibleMaps(user).Select("id"))
	if mapID != nil {
		q = q.Where("point_of_interests.map_id = ?", *mapID)
	}
	if layerID != nil {
		q = q.Where("point_of_interests.layer_id = ?", *layerID)
	}
	return q
}
