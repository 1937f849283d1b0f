package services

import (
	"errors"
	"math"

	"github.com/GrainArc/MarkMap/models"
	"gorm.io/gorm"
)

type POIService struct {
	DB   *gorm.DB
	Maps *MapService
	Vis  *VisibilityService
}

func NewPOIService(db *gorm.DB, maps *MapService) *POIService {
	return &POIService{DB: db, Maps: maps, Vis: NewVisibilityService(db)}
}

type POIRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	MapID       uint    `json:"map_id" binding:"required"`
	LayerID     *uint   `json:"layer_id"`
	CategoryID  *uint   `json:"category_id"`
	XPosition   float64 `json:"x_position"`
	YPosition   float64 `json:"y_position"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
}

// roundPosition 百分比坐标保留3位小数
func roundPosition(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func validatePosition(x, y float64) error {
	if x < 0 || x > 100 || y < 0 || y > 100 {
		return Validationf("坐标必须在0到100之间")
	}
	return nil
}

// checkLayer 校验图层归属：跨地图挂接直接拒绝
func (s *POIService) checkLayer(layerID uint, mapID uint) error {
	var layer models.MapLayer
	if err := s.DB.First(&layer, layerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Validationf("图层不存在")
		}
		return err
	}
	if layer.MapID != mapID {
		return Validationf("图层不属于该地图")
	}
	return nil
}

// checkCategory 分类是按用户维护的，只能挂自己的分类
func (s *POIService) checkCategory(categoryID uint, user *models.User) error {
	var cat models.Category
	if err := s.DB.First(&cat, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Validationf("分类不存在")
		}
		return err
	}
	if cat.OwnerID != user.ID {
		return Validationf("只能使用自己的分类")
	}
	return nil
}

// Create 在地图上新建兴趣点，需要编辑权限
func (s *POIService) Create(user *models.User, req *POIRequest) (*models.PointOfInterest, error) {
	m, _, err := s.Maps.GetAuthorized(user, req.MapID, CapManagePOI)
	if err != nil {
		return nil, err
	}
	if err := validatePosition(req.XPosition, req.YPosition); err != nil {
		return nil, err
	}
	if req.LayerID != nil {
		if err := s.checkLayer(*req.LayerID, m.ID); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(*req.CategoryID, user); err != nil {
			return nil, err
		}
	}
	poi := models.PointOfInterest{
		Name:        req.Name,
		Description: req.Description,
		MapID:       m.ID,
		LayerID:     req.LayerID,
		CategoryID:  req.CategoryID,
		XPosition:   roundPosition(req.XPosition),
		YPosition:   roundPosition(req.YPosition),
		Icon:        req.Icon,
		Color:       req.Color,
		CreatedByID: user.ID,
	}
	if err := s.DB.Create(&poi).Error; err != nil {
		return nil, err
	}
	return &poi, nil
}

// List 可见兴趣点，支持按地图、图层过滤和排序
func (s *POIService) List(user *models.User, mapID, layerID *uint, sortBy, order string) ([]models.PointOfInterest, error) {
	q := s.Vis.VisiblePOIs(user, mapID, layerID).Preload("Layer").Preload("Category")
	q = applyPOIOrder(q, sortBy, order)
	var pois []models.PointOfInterest
	err := q.Find(&pois).Error
	return pois, err
}

// ListOfMap 某地图的全部兴趣点，带排序。供 /maps/:id/pois 使用
func (s *POIService) ListOfMap(user *models.User, mapID uint, sortBy, order string) ([]models.PointOfInterest, error) {
	if _, _, err := s.Maps.GetAuthorized(user, mapID, CapRead); err != nil {
		return nil, err
	}
	q := s.DB.Model(&models.PointOfInterest{}).Where("point_of_interests.map_id = ?", mapID).
		Preload("Layer").Preload("Category")
	q = applyPOIOrder(q, sortBy, order)
	var pois []models.PointOfInterest
	err := q.Find(&pois).Error
	return pois, err
}

func applyPOIOrder(q *gorm.DB, sortBy, order string) *gorm.DB {
	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "name":
		return q.Order("point_of_interests.name " + dir)
	case "layer":
		return q.Select("point_of_interests.*").
			Joins("LEFT JOIN map_layers ON map_layers.id = point_of_interests.layer_id").
			Order("map_layers.name " + dir)
	case "updated":
		return q.Order("point_of_interests.updated_at " + dir)
	default:
		return q.Order("point_of_interests.created_at " + dir)
	}
}

// POIGroup 按图层分组的兴趣点
type POIGroup struct {
	Layer *models.MapLayer         `json:"layer"`
	POIs  []models.PointOfInterest `json:"points_of_interest"`
}

// GroupByLayer 按图层分组返回某地图的兴趣点，未挂图层的放最后一组
func (s *POIService) GroupByLayer(user *models.User, mapID uint) ([]POIGroup, error) {
	if _, _, err := s.Maps.GetAuthorized(user, mapID, CapRead); err != nil {
		return nil, err
	}
	var layers []models.MapLayer
	if err := s.DB.Where("map_id = ?", mapID).Order("sort_order, name").Find(&layers).Error; err != nil {
		return nil, err
	}
	var all []models.PointOfInterest
	if err := s.DB.Preload("Layer").Preload("Category").Where("map_id = ?", mapID).Find(&all).Error; err != nil {
		return nil, err
	}
	groups := make([]POIGroup, 0, len(layers)+1)
	for i := range layers {
		layer := layers[i]
		group := POIGroup{Layer: &layer, POIs: []models.PointOfInterest{}}
		for _, p := range all {
			if p.LayerID != nil && *p.LayerID == layer.ID {
				group.POIs = append(group.POIs, p)
			}
		}
		groups = append(groups, group)
	}
	var noLayer []models.PointOfInterest
	for _, p := range all {
		if p.LayerID == nil {
			noLayer = append(noLayer, p)
		}
	}
	if len(noLayer) > 0 {
		groups = append(groups, POIGroup{Layer: nil, POIs: noLayer})
	}
	return groups, nil
}

func (s *POIService) get(user *models.User, poiID uint, cap Capability) (*models.PointOfInterest, error) {
	var poi models.PointOfInterest
	if err := s.DB.Preload("Layer").Preload("Category").First(&poi, poiID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("兴趣点不存在")
		}
		return nil, err
	}
	// 权限解析到所属地图
	if _, _, err := s.Maps.GetAuthorized(user, poi.MapID, cap); err != nil {
		return nil, err
	}
	return &poi, nil
}

// Get 兴趣点详情，可见即可读
func (s *POIService) Get(user *models.User, poiID uint) (*models.PointOfInterest, error) {
	return s.get(user, poiID, CapRead)
}

type POIUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	LayerID     *uint    `json:"layer_id"`
	ClearLayer  bool     `json:"clear_layer"`
	CategoryID  *uint    `json:"category_id"`
	XPosition   *float64 `json:"x_position"`
	YPosition   *float64 `json:"y_position"`
	Icon        *string  `json:"icon"`
	Color       *string  `json:"color"`
}

// Update 修改兴趣点，需要编辑权限
func (s *POIService) Update(user *models.User, poiID uint, req *POIUpdateRequest) (*models.PointOfInterest, error) {
	poi, err := s.get(user, poiID, CapManagePOI)
	if err != nil {
		return nil, err
	}
	old := *poi
	if req.Name != nil {
		if *req.Name == "" {
			return nil, Validationf("名称不能为空")
		}
		poi.Name = *req.Name
	}
	if req.Description != nil {
		poi.Description = *req.Description
	}
	if req.ClearLayer {
		poi.LayerID = nil
		poi.Layer = nil
	} else if req.LayerID != nil {
		if err := s.checkLayer(*req.LayerID, poi.MapID); err != nil {
			return nil, err
		}
		poi.LayerID = req.LayerID
		poi.Layer = nil
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(*req.CategoryID, user); err != nil {
			return nil, err
		}
		poi.CategoryID = req.CategoryID
		poi.Category = nil
	}
	x, y := poi.XPosition, poi.YPosition
	if req.XPosition != nil {
		x = *req.XPosition
	}
	if req.YPosition != nil {
		y = *req.YPosition
	}
	if err := validatePosition(x, y); err != nil {
		return nil, err
	}
	poi.XPosition = roundPosition(x)
	poi.YPosition = roundPosition(y)
	if req.Icon != nil {
		poi.Icon = *req.Icon
	}
	if req.Color != nil {
		poi.Color = *req.Color
	}
	poi.Layer = nil
	poi.Category = nil
	if err := s.DB.Omit("Layer", "Category", "Map", "CreatedBy").Save(poi).Error; err != nil {
		return nil, err
	}
	writeEditRecord(s.DB, "poi", poi.ID, poi.MapID, user.Username, "update", &old, poi)
	return poi, nil
}

// Delete 删除兴趣点，需要管理权限
func (s *POIService) Delete(user *models.User, poiID uint) error {
	poi, err := s.get(user, poiID, CapDeletePOI)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(&models.PointOfInterest{}, poi.ID).Error; err != nil {
		return err
	}
	writeEditRecord(s.DB, "poi", poi.ID, poi.MapID, user.Username, "delete", poi, nil)
	return nil
}
