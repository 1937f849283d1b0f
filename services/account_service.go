package services

import (
	"errors"

	"github.com/GrainArc/MarkMap/models"
	"github.com/GrainArc/MarkMap/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	DB    *gorm.DB
	Maps  *MapService
	Blobs *storage.BlobStore
}

func NewAccountService(db *gorm.DB, maps *MapService, blobs *storage.BlobStore) *AccountService {
	return &AccountService{DB: db, Maps: maps, Blobs: blobs}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register 注册用户。用户建好后同步创建资料页（显式的创建后置步骤，
// 不走隐式信号），再签发令牌。
func (s *AccountService) Register(req *RegisterRequest) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflictf("用户名已被占用")
			}
			return err
		}
		// 创建后置钩子：生成用户资料
		return tx.Create(&models.UserProfile{UserID: user.ID}).Error
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验口令并返回令牌，已有令牌直接复用
func (s *AccountService) Login(req *LoginRequest) (*models.User, string, error) {
	var user models.User
	if err := s.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", Validationf("用户名或密码错误")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", Validationf("用户名或密码错误")
	}
	var token models.AuthToken
	err := s.DB.Where("user_id = ?", user.ID).First(&token).Error
	if err == nil {
		return &user, token.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	key, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, key, nil
}

func (s *AccountService) issueToken(user *models.User) (string, error) {
	token := models.AuthToken{Key: uuid.NewString(), UserID: user.ID}
	if err := s.DB.Create(&token).Error; err != nil {
		return "", err
	}
	return token.Key, nil
}

// Logout 删除当前令牌，令牌不存在也算成功
func (s *AccountService) Logout(user *models.User) error {
	return s.DB.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error
}

type UserUpdateRequest struct {
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}

// UpdateMe 更新当前用户和资料页
func (s *AccountService) UpdateMe(user *models.User, req *UserUpdateRequest) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if req.Email != nil {
			if err := tx.Model(user).Update("email", *req.Email).Error; err != nil {
				return err
			}
		}
		var profile models.UserProfile
		if err := tx.Where("user_id = ?", user.ID).FirstOrCreate(&profile, models.UserProfile{UserID: user.ID}).Error; err != nil {
			return err
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Location != nil {
			profile.Location = *req.Location
		}
		if req.Website != nil {
			profile.Website = *req.Website
		}
		return tx.Omit("User").Save(&profile).Error
	})
}

// Profile 取用户资料页
func (s *AccountService) Profile(user *models.User) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Where("user_id = ?", user.ID).FirstOrCreate(&profile, models.UserProfile{UserID: user.ID}).Error
	return &profile, err
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword 改密码，旧口令必须正确
func (s *AccountService) ChangePassword(user *models.User, req *PasswordChangeRequest) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return Validationf("原密码不正确")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Model(user).Update("password_hash", string(hash)).Error
}

// DeleteAccount 注销账号。先按地图逐个走完整删除流程（含文件清理），
// 再删用户本身，被分享记录随外键级联清掉。
func (s *AccountService) DeleteAccount(user *models.User) error {
	var maps []models.Map
	if err := s.DB.Where("owner_id = ?", user.ID).Find(&maps).Error; err != nil {
		return err
	}
	for i := range maps {
		if err := s.Maps.Delete(user, maps[i].ID); err != nil {
			return err
		}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shared_with_id = ? OR shared_by_id = ?", user.ID, user.ID).Delete(&models.SharedMap{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PointOfInterest{}).Where("category_id IN (?)",
			tx.Model(&models.Category{}).Select("id").Where("owner_id = ?", user.ID)).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", user.ID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		// 该用户在别人地图上创建的兴趣点随用户一起删除
		if err := tx.Where("created_by_id = ?", user.ID).Delete(&models.PointOfInterest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		return err
	}
	s.Blobs.DeleteUserDir(user.ID)
	return nil
}

// SearchUsers 按用户名或邮箱找人，分享对话框用
func (s *AccountService) SearchUsers(q string) ([]models.UserMinimal, error) {
	if q == "" {
		return []models.UserMinimal{}, nil
	}
	var users []models.User
	like := "%" + q + "%"
	if err := s.DB.Where("username LIKE ? OR email LIKE ?", like, like).Limit(20).Find(&users).Error; err != nil {
		return nil, err
	}
	result := make([]models.UserMinimal, 0, len(users))
	for i := range users {
		result = append(result, users[i].Minimal())
	}
	return result, nil
}
