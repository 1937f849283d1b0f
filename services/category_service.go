package services

import (
	"errors"

	"github.com/GrainArc/MarkMap/models"
	"gorm.io/gorm"
)

// CategoryService 分类是用户私有的兴趣点分组，不走地图权限
type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func (s *CategoryService) Create(user *models.User, req *CategoryRequest) (*models.Category, error) {
	cat := models.Category{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	}
	if req.Color != "" {
		cat.Color = req.Color
	}
	if req.Icon != "" {
		cat.Icon = req.Icon
	}
	if err := s.DB.Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("已存在同名分类")
		}
		return nil, err
	}
	return &cat, nil
}

func (s *CategoryService) List(user *models.User) ([]models.Category, error) {
	var cats []models.Category
	err := s.DB.Where("owner_id = ?", user.ID).Order("name").Find(&cats).Error
	return cats, err
}

func (s *CategoryService) get(user *models.User, id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.DB.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("分类不存在")
		}
		return nil, err
	}
	if cat.OwnerID != user.ID {
		return nil, NotFoundf("分类不存在")
	}
	return &cat, nil
}

func (s *CategoryService) Update(user *models.User, id uint, req *CategoryRequest) (*models.Category, error) {
	cat, err := s.get(user, id)
	if err != nil {
		return nil, err
	}
	cat.Name = req.Name
	cat.Description = req.Description
	if req.Color != "" {
		cat.Color = req.Color
	}
	if req.Icon != "" {
		cat.Icon = req.Icon
	}
	if err := s.DB.Save(cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("已存在同名分类")
		}
		return nil, err
	}
	return cat, nil
}

// Delete 删除分类，挂在分类下的兴趣点保留，仅解除关联
func (s *CategoryService) Delete(user *models.User, id uint) error {
	cat, err := s.get(user, id)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PointOfInterest{}).Where("category_id = ?", cat.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, cat.ID).Error
	})
}
