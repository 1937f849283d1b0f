package services

import (
	"errors"

	"github.com/GrainArc/MarkMap/models"
	"gorm.io/gorm"
)

type LayerService struct {
	DB   *gorm.DB
	Maps *MapService
	Vis  *VisibilityService
}

func NewLayerService(db *gorm.DB, maps *MapService) *LayerService {
	return &LayerService{DB: db, Maps: maps, Vis: NewVisibilityService(db)}
}

type LayerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	MapID       uint   `json:"map_id" binding:"required"`
	IsVisible   *bool  `json:"is_visible"`
	Order       int    `json:"order"`
}

// Create 在地图下新建图层，需要编辑权限。同图重名返回冲突
func (s *LayerService) Create(user *models.User, req *LayerRequest) (*models.MapLayer, error) {
	m, _, err := s.Maps.GetAuthorized(user, req.MapID, CapManageLayer)
	if err != nil {
		return nil, err
	}
	layer := models.MapLayer{
		Name:        req.Name,
		Description: req.Description,
		MapID:       m.ID,
		Order:       req.Order,
	}
	if req.Color != "" {
		layer.Color = req.Color
	}
	if req.IsVisible != nil {
		layer.IsVisible = *req.IsVisible
	} else {
		layer.IsVisible = true
	}
	if err := s.DB.Create(&layer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("该地图下已存在同名图层")
		}
		return nil, err
	}
	return &layer, nil
}

// List 可见图层，可按地图过滤
func (s *LayerService) List(user *models.User, mapID *uint) ([]models.MapLayer, error) {
	var layers []models.MapLayer
	err := s.Vis.VisibleLayers(user, mapID).Order("sort_order, name").Find(&layers).Error
	return layers, err
}

func (s *LayerService) get(user *models.User, layerID uint, cap Capability) (*models.MapLayer, error) {
	var layer models.MapLayer
	if err := s.DB.First(&layer, layerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("图层不存在")
		}
		return nil, err
	}
	// 权限永远解析到所属地图，图层自身不单独授权
	if _, _, err := s.Maps.GetAuthorized(user, layer.MapID, cap); err != nil {
		return nil, err
	}
	return &layer, nil
}

// Get 图层详情，可见即可读
func (s *LayerService) Get(user *models.User, layerID uint) (*models.MapLayer, error) {
	return s.get(user, layerID, CapRead)
}

type LayerUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsVisible   *bool   `json:"is_visible"`
	Order       *int    `json:"order"`
}

// Update 修改图层，需要编辑权限
func (s *LayerService) Update(user *models.User, layerID uint, req *LayerUpdateRequest) (*models.MapLayer, error) {
	layer, err := s.get(user, layerID, CapManageLayer)
	if err != nil {
		return nil, err
	}
	old := *layer
	if req.Name != nil {
		if *req.Name == "" {
			return nil, Validationf("名称不能为空")
		}
		layer.Name = *req.Name
	}
	if req.Description != nil {
		layer.Description = *req.Description
	}
	if req.Color != nil {
		layer.Color = *req.Color
	}
	if req.IsVisible != nil {
		layer.IsVisible = *req.IsVisible
	}
	if req.Order != nil {
		layer.Order = *req.Order
	}
	if err := s.DB.Save(layer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("该地图下已存在同名图层")
		}
		return nil, err
	}
	writeEditRecord(s.DB, "layer", layer.ID, layer.MapID, user.Username, "update", &old, layer)
	return layer, nil
}

// Delete 删除图层，需要管理权限。图层下的兴趣点保留，仅解除关联
func (s *LayerService) Delete(user *models.User, layerID uint) error {
	layer, err := s.get(user, layerID, CapDeleteLayer)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PointOfInterest{}).Where("layer_id = ?", layer.ID).
			Update("layer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.MapLayer{}, layer.ID).Error; err != nil {
			return err
		}
		writeEditRecord(tx, "layer", layer.ID, layer.MapID, user.Username, "delete", layer, nil)
		return nil
	})
}
