package services

import (
	"errors"

	"github.com/GrainArc/MarkMap/models"
	"gorm.io/gorm"
)

// PermissionLevel 权限级别，全序：None < View < Edit < Admin < Owner
type PermissionLevel int

const (
	LevelNone PermissionLevel = iota
	LevelView
	LevelEdit
	LevelAdmin
	LevelOwner
)

func (l PermissionLevel) String() string {
	switch l {
	case LevelView:
		return models.PermView
	case LevelEdit:
		return models.PermEdit
	case LevelAdmin:
		return models.PermAdmin
	case LevelOwner:
		return "owner"
	default:
		return "none"
	}
}

// ParseLevel 解析分享记录里的权限字符串，未知值按无权限处理
func ParseLevel(s string) PermissionLevel {
	switch s {
	case models.PermView:
		return LevelView
	case models.PermEdit:
		return LevelEdit
	case models.PermAdmin:
		return LevelAdmin
	default:
		return LevelNone
	}
}

// Capability 单个受控动作
type Capability int

const (
	CapRead Capability = iota
	CapEditMap
	CapDeleteMap
	CapManageLayer
	CapDeleteLayer
	CapManagePOI
	CapDeletePOI
	CapCreateShare
	CapManageShare
)

// capabilityTable 各动作要求的最低权限级别。
// 删除地图和改动/撤销分享仅限拥有者。
var capabilityTable = map[Capability]PermissionLevel{
	CapRead:        LevelView,
	CapEditMap:     LevelEdit,
	CapDeleteMap:   LevelOwner,
	CapManageLayer: LevelEdit,
	CapDeleteLayer: LevelAdmin,
	CapManagePOI:   LevelEdit,
	CapDeletePOI:   LevelAdmin,
	CapCreateShare: LevelEdit,
	CapManageShare: LevelOwner,
}

// Allows 判断级别是否满足动作要求
func (l PermissionLevel) Allows(cap Capability) bool {
	return l >= capabilityTable[cap]
}

type PermissionService struct {
	DB *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{DB: db}
}

// Resolve 解析用户对地图的权限级别，每次请求都重新查询。
// 顺序：超级用户 -> 拥有者 -> 分享记录 -> 公开地图 -> 无权限。
func (s *PermissionService) Resolve(user *models.User, m *models.Map) PermissionLevel {
	if user.IsSuperuser {
		return LevelOwner
	}
	if m.OwnerID == user.ID {
		return LevelOwner
	}
	var share models.SharedMap
	err := s.DB.Where("map_id = ? AND shared_with_id = ?", m.ID, user.ID).First(&share).Error
	if err == nil {
		return ParseLevel(share.Permission)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		// 查询异常时按无权限处理
		return LevelNone
	}
	if m.IsPublic {
		return LevelView
	}
	return LevelNone
}

// CapabilityFlags 前端用的能力开关，按当前级别展开能力表
type CapabilityFlags struct {
	Permission  string `json:"permission"`
	CanView     bool   `json:"can_view"`
	CanEdit     bool   `json:"can_edit"`
	CanDelete   bool   `json:"can_delete"`
	CanAddLayer bool   `json:"can_add_layer"`
	CanDelLayer bool   `json:"can_delete_layer"`
	CanAddPOI   bool   `json:"can_add_poi"`
	CanDelPOI   bool   `json:"can_delete_poi"`
	CanShare    bool   `json:"can_share"`
	CanManage   bool   `json:"can_manage_share"`
}

func Flags(l PermissionLevel) CapabilityFlags {
	return CapabilityFlags{
		Permission:  l.String(),
		CanView:     l.Allows(CapRead),
		CanEdit:     l.Allows(CapEditMap),
		CanDelete:   l.Allows(CapDeleteMap),
		CanAddLayer: l.Allows(CapManageLayer),
		CanDelLayer: l.Allows(CapDeleteLayer),
		CanAddPOI:   l.Allows(CapManagePOI),
		CanDelPOI:   l.Allows(CapDeletePOI),
		CanShare:    l.Allows(CapCreateShare),
		CanManage:   l.Allows(CapManageShare),
	}
}
