package services

import (
	"errors"

	"github.com/GrainArc/MarkMap/models"
	"gorm.io/gorm"
)

type ShareService struct {
	DB   *gorm.DB
	Maps *MapService
}

func NewShareService(db *gorm.DB, maps *MapService) *ShareService {
	return &ShareService{DB: db, Maps: maps}
}

// ShareItem 分享记录的返回结构，带双方用户信息
type ShareItem struct {
	models.SharedMap
	MapName    string             `json:"map_name"`
	SharedWith models.UserMinimal `json:"shared_with"`
	SharedBy   models.UserMinimal `json:"shared_by"`
}

// listSharesOfMap 拥有者看到全部分享，其他人只看到自己那条
func listSharesOfMap(db *gorm.DB, m *models.Map, viewer *models.User, level PermissionLevel) ([]ShareItem, error) {
	q := db.Preload("SharedWith").Preload("SharedBy").Where("map_id = ?", m.ID)
	if level < LevelOwner {
		q = q.Where("shared_with_id = ?", viewer.ID)
	}
	var shares []models.SharedMap
	if err := q.Order("created_at DESC").Find(&shares).Error; err != nil {
		return nil, err
	}
	items := make([]ShareItem, 0, len(shares))
	for _, sh := range shares {
		items = append(items, ShareItem{
			SharedMap:  sh,
			MapName:    m.Name,
			SharedWith: sh.SharedWith.Minimal(),
			SharedBy:   sh.SharedBy.Minimal(),
		})
	}
	return items, nil
}

type ShareRequest struct {
	SharedWithID uint   `json:"shared_with_id" binding:"required"`
	Permission   string `json:"permission"`
}

// Create 分享地图给其他用户。编辑及以上权限可以发起分享。
// 不能分享给自己，也不能对同一个人重复分享。
func (s *ShareService) Create(actor *models.User, mapID uint, req *ShareRequest) (*ShareItem, error) {
	m, _, err := s.Maps.GetAuthorized(actor, mapID, CapCreateShare)
	if err != nil {
		return nil, err
	}
	perm := req.Permission
	if perm == "" {
		perm = models.PermView
	}
	if !models.ValidPermission(perm) {
		return nil, Validationf("权限级别必须是view、edit或admin")
	}
	if req.SharedWithID == actor.ID {
		return nil, Validationf("不能将地图分享给自己")
	}
	if req.SharedWithID == m.OwnerID {
		return nil, Validationf("不能分享给地图拥有者")
	}
	var recipient models.User
	if err := s.DB.First(&recipient, req.SharedWithID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validationf("目标用户不存在")
		}
		return nil, err
	}
	var count int64
	s.DB.Model(&models.SharedMap{}).Where("map_id = ? AND shared_with_id = ?", m.ID, recipient.ID).Count(&count)
	if count > 0 {
		return nil, Validationf("该地图已分享给此用户，请改用更新")
	}

	share := models.SharedMap{
		MapID:        m.ID,
		SharedWithID: recipient.ID,
		SharedByID:   actor.ID,
		Permission:   perm,
	}
	if err := s.DB.Create(&share).Error; err != nil {
		// 并发创建时靠唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("该地图已分享给此用户")
		}
		return nil, err
	}
	return &ShareItem{
		SharedMap:  share,
		MapName:    m.Name,
		SharedWith: recipient.Minimal(),
		SharedBy:   actor.Minimal(),
	}, nil
}

// ListOfMap 某地图的分享列表
func (s *ShareService) ListOfMap(user *models.User, mapID uint) ([]ShareItem, error) {
	m, level, err := s.Maps.GetAuthorized(user, mapID, CapRead)
	if err != nil {
		return nil, err
	}
	return listSharesOfMap(s.DB, m, user, level)
}

// ListMine 当前用户相关的分享：自己地图上的和分享给自己的
func (s *ShareService) ListMine(user *models.User) ([]ShareItem, error) {
	var shares []models.SharedMap
	ownedMaps := s.DB.Model(&models.Map{}).Select("id").Where("owner_id = ?", user.ID)
	if err := s.DB.Preload("SharedWith").Preload("SharedBy").Preload("Map").
		Where("shared_with_id = ? OR map_id IN (?)", user.ID, ownedMaps).
		Order("created_at DESC").Find(&shares).Error; err != nil {
		return nil, err
	}
	items := make([]ShareItem, 0, len(shares))
	for _, sh := range shares {
		items = append(items, ShareItem{
			SharedMap:  sh,
			MapName:    sh.Map.Name,
			SharedWith: sh.SharedWith.Minimal(),
			SharedBy:   sh.SharedBy.Minimal(),
		})
	}
	return items, nil
}

func (s *ShareService) getShare(shareID uint) (*models.SharedMap, *models.Map, error) {
	var share models.SharedMap
	if err := s.DB.Preload("SharedWith").Preload("SharedBy").First(&share, shareID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundf("分享记录不存在")
		}
		return nil, nil, err
	}
	var m models.Map
	if err := s.DB.First(&m, share.MapID).Error; err != nil {
		return nil, nil, err
	}
	return &share, &m, nil
}

// UpdateLevel 调整分享级别。仅地图拥有者可以改，
// 防止低级别协作者借分享抬升他人权限。
func (s *ShareService) UpdateLevel(actor *models.User, shareID uint, permission string) (*ShareItem, error) {
	share, m, err := s.getShare(shareID)
	if err != nil {
		return nil, err
	}
	level := s.Maps.Perms.Resolve(actor, m)
	if level == LevelNone {
		return nil, NotFoundf("分享记录不存在")
	}
	if !level.Allows(CapManageShare) {
		return nil, Forbiddenf("只有地图拥有者可以调整分享权限")
	}
	if !models.ValidPermission(permission) {
		return nil, Validationf("权限级别必须是view、edit或admin")
	}
	share.Permission = permission
	if err := s.DB.Omit("Map", "SharedWith", "SharedBy").Save(share).Error; err != nil {
		return nil, err
	}
	return &ShareItem{
		SharedMap:  *share,
		MapName:    m.Name,
		SharedWith: share.SharedWith.Minimal(),
		SharedBy:   share.SharedBy.Minimal(),
	}, nil
}

// Revoke 撤销分享。拥有者可撤销任何分享（不管是谁发起的），
// 被分享人也可以撤销自己的这条（退出别人分享的地图）。
func (s *ShareService) Revoke(actor *models.User, shareID uint) error {
	share, m, err := s.getShare(shareID)
	if err != nil {
		return err
	}
	if share.SharedWithID != actor.ID {
		level := s.Maps.Perms.Resolve(actor, m)
		if level == LevelNone {
			return NotFoundf("分享记录不存在")
		}
		if !level.Allows(CapManageShare) {
			return Forbiddenf("只有地图拥有者可以撤销分享")
		}
	}
	return s.DB.Delete(&models.SharedMap{}, share.ID).Error
}
