package services

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/GrainArc/MarkMap/models"
	"github.com/GrainArc/MarkMap/storage"
	"gorm.io/gorm"
)

type MapService struct {
	DB    *gorm.DB
	Perms *PermissionService
	Vis   *VisibilityService
	Blobs *storage.BlobStore
}

func NewMapService(db *gorm.DB, blobs *storage.BlobStore) *MapService {
	return &MapService{
		DB:    db,
		Perms: NewPermissionService(db),
		Vis:   NewVisibilityService(db),
		Blobs: blobs,
	}
}

// GetAuthorized 取地图并校验动作权限。
// 无任何权限时返回NotFound，避免暴露私有地图的存在。
func (s *MapService) GetAuthorized(user *models.User, mapID uint, cap Capability) (*models.Map, PermissionLevel, error) {
	var m models.Map
	if err := s.DB.First(&m, mapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, LevelNone, NotFoundf("地图不存在")
		}
		return nil, LevelNone, err
	}
	level := s.Perms.Resolve(user, &m)
	if level == LevelNone {
		return nil, LevelNone, NotFoundf("地图不存在")
	}
	if !level.Allows(cap) {
		return nil, level, Forbiddenf("当前权限不允许该操作")
	}
	return &m, level, nil
}

type CreateMapRequest struct {
	Name        string
	Description string
	Width       *int
	Height      *int
	IsPublic    bool
	File        *multipart.FileHeader
}

// InferFileType 按上传内容的Content-Type推断文件类型
func InferFileType(contentType string) string {
	if strings.Contains(contentType, "pdf") {
		return models.FileTypePDF
	}
	return models.FileTypeImage
}

// Create 上传地图文件并建档，拥有者为当前用户
func (s *MapService) Create(user *models.User, req *CreateMapRequest) (*models.Map, error) {
	if req.Name == "" {
		return nil, Validationf("名称不能为空")
	}
	if req.File == nil {
		return nil, Validationf("请选择要上传的地图文件")
	}
	f, err := req.File.Open()
	if err != nil {
		return nil, Validationf("无法打开上传文件")
	}
	defer f.Close()

	ref, err := s.Blobs.Put(user.ID, req.File.Filename, f)
	if err != nil {
		return nil, err
	}

	m := models.Map{
		Name:        req.Name,
		Description: req.Description,
		FilePath:    ref,
		FileType:    InferFileType(req.File.Header.Get("Content-Type")),
		OwnerID:     user.ID,
		Width:       req.Width,
		Height:      req.Height,
		IsPublic:    req.IsPublic,
	}
	if err := s.DB.Create(&m).Error; err != nil {
		// 建档失败时清掉已保存的文件
		s.Blobs.Delete(ref)
		return nil, err
	}
	return &m, nil
}

// MapListItem 列表项，附带统计数
type MapListItem struct {
	models.Map
	Owner      models.UserMinimal `json:"owner"`
	POICount   int64              `json:"poi_count"`
	LayerCount int64              `json:"layer_count"`
}

// List 按可见范围列出地图。scope: "" 全部可见 / mine / shared / public
func (s *MapService) List(user *models.User, scope, search, sortBy, order string) ([]MapListItem, error) {
	var q *gorm.DB
	switch scope {
	case "mine":
		q = s.Vis.MyMaps(user)
	case "shared":
		q = s.Vis.SharedWithMe(user)
	case "public":
		q = s.Vis.PublicMaps(user)
	default:
		q = s.Vis.VisibleMaps(user)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	q = q.Order(mapOrderClause(sortBy, order))

	var maps []models.Map
	if err := q.Find(&maps).Error; err != nil {
		return nil, err
	}
	items := make([]MapListItem, 0, len(maps))
	for i := range maps {
		item, err := s.buildListItem(&maps[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *MapService) buildListItem(m *models.Map) (MapListItem, error) {
	var owner models.User
	if err := s.DB.First(&owner, m.OwnerID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return MapListItem{}, err
	}
	var poiCount, layerCount int64
	s.DB.Model(&models.PointOfInterest{}).Where("map_id = ?", m.ID).Count(&poiCount)
	s.DB.Model(&models.MapLayer{}).Where("map_id = ?", m.ID).Count(&layerCount)
	return MapListItem{Map: *m, Owner: owner.Minimal(), POICount: poiCount, LayerCount: layerCount}, nil
}

func mapOrderClause(sortBy, order string) string {
	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "name":
		return "name " + dir
	case "created":
		return "created_at " + dir
	default:
		return "updated_at " + dir
	}
}

// MapDetail 详情，带图层、兴趣点和分享列表
type MapDetail struct {
	models.Map
	Owner    models.UserMinimal       `json:"owner"`
	Layers   []models.MapLayer        `json:"layers"`
	POIs     []models.PointOfInterest `json:"points_of_interest"`
	Shares   []ShareItem              `json:"shared_with"`
	POICount int64                    `json:"poi_count"`
}

// Get 地图详情，可见即可读
func (s *MapService) Get(user *models.User, mapID uint) (*MapDetail, error) {
	m, level, err := s.GetAuthorized(user, mapID, CapRead)
	if err != nil {
		return nil, err
	}
	var owner models.User
	s.DB.First(&owner, m.OwnerID)

	detail := MapDetail{Map: *m, Owner: owner.Minimal()}
	if err := s.DB.Where("map_id = ?", m.ID).Order("sort_order, name").Find(&detail.Layers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Preload("Layer").Preload("Category").Where("map_id = ?", m.ID).
		Order("created_at DESC").Find(&detail.POIs).Error; err != nil {
		return nil, err
	}
	shares, err := listSharesOfMap(s.DB, m, user, level)
	if err != nil {
		return nil, err
	}
	detail.Shares = shares
	detail.POICount = int64(len(detail.POIs))
	return &detail, nil
}

type UpdateMapRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
	IsPublic    *bool   `json:"is_public"`
}

// Update 修改地图基础信息，不含文件。需要编辑权限
func (s *MapService) Update(user *models.User, mapID uint, req *UpdateMapRequest) (*models.Map, error) {
	m, _, err := s.GetAuthorized(user, mapID, CapEditMap)
	if err != nil {
		return nil, err
	}
	old := *m
	if req.Name != nil {
		if *req.Name == "" {
			return nil, Validationf("名称不能为空")
		}
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Width != nil {
		m.Width = req.Width
	}
	if req.Height != nil {
		m.Height = req.Height
	}
	if req.IsPublic != nil {
		m.IsPublic = *req.IsPublic
	}
	if err := s.DB.Save(m).Error; err != nil {
		return nil, err
	}
	writeEditRecord(s.DB, "map", m.ID, m.ID, user.Username, "update", &old, m)
	return m, nil
}

// Delete 删除地图。仅拥有者。
// 分享、图层、兴趣点和地图记录在一个事务内按序删除，
// 文件删除在事务之外尽力而为，失败不回滚也不报错。
func (s *MapService) Delete(user *models.User, mapID uint) error {
	m, _, err := s.GetAuthorized(user, mapID, CapDeleteMap)
	if err != nil {
		return err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("map_id = ?", m.ID).Delete(&models.SharedMap{}).Error; err != nil {
			return err
		}
		if err := tx.Where("map_id = ?", m.ID).Delete(&models.PointOfInterest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("map_id = ?", m.ID).Delete(&models.MapLayer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Map{}, m.ID).Error; err != nil {
			return err
		}
		writeEditRecord(tx, "map", m.ID, m.ID, user.Username, "delete", m, nil)
		return nil
	})
	if err != nil {
		return err
	}
	s.Blobs.Delete(m.FilePath)
	return nil
}

// MyPermission 当前用户对地图的权限和能力开关
func (s *MapService) MyPermission(user *models.User, mapID uint) (*CapabilityFlags, error) {
	_, level, err := s.GetAuthorized(user, mapID, CapRead)
	if err != nil {
		return nil, err
	}
	flags := Flags(level)
	return &flags, nil
}
