package repository

import (
	"errors"
	"strings"
	"time"

	"chat-app/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建UserRepository实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// Save 保存用户（全字段更新）
func (r *UserRepository) Save(user *model.User) error {
	return r.db.Save(user).Error
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail 根据邮箱获取用户（邮箱不区分大小写）
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsernameOrEmail 根据用户名或邮箱获取用户（登录入口）
func (r *UserRepository) GetByUsernameOrEmail(identifier string) (*model.User, error) {
	var u model.User
	err := r.db.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByEmail 邮箱是否已注册
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var u model.User
	err := r.db.Select("id").Where("email = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateLoginState 更新登录安全状态（失败计数与锁定时间）
func (r *UserRepository) UpdateLoginState(id uint, attempts int, lockUntil *time.Time) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"login_attempts": attempts,
			"lock_until":     lockUntil,
		}).Error
}

// UpdateLastLogin 更新最近登录时间
func (r *UserRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}
