package model

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
// 索引与唯一约束：用户名唯一、邮箱唯一（邮箱统一存小写）
// 说明：密码仅存储哈希（PasswordHash），不存储明文
// 验证令牌与重置令牌同样只存哈希，配合过期时间使用
// LoginAttempts/LockUntil 为登录安全状态，不对外序列化

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(30);not null;uniqueIndex;comment:用户名"`
	Email        string `gorm:"type:varchar(128);not null;uniqueIndex;comment:邮箱(小写)"`
	PasswordHash string `gorm:"type:varchar(255);not null;comment:密码哈希"`
	FirstName    string `gorm:"type:varchar(50);not null;comment:名"`
	LastName     string `gorm:"type:varchar(50);not null;comment:姓"`

	// 资料字段（自由填写，不参与业务规则）
	Avatar      string `gorm:"type:varchar(255);comment:头像URL"`
	Bio         string `gorm:"type:varchar(500);comment:简介"`
	PhoneNumber string `gorm:"type:varchar(32);comment:电话"`
	Street      string `gorm:"type:varchar(100);comment:街道"`
	City        string `gorm:"type:varchar(50);comment:城市"`
	State       string `gorm:"type:varchar(50);comment:省/州"`
	ZipCode     string `gorm:"type:varchar(16);comment:邮编"`
	Country     string `gorm:"type:varchar(50);default:'United States';comment:国家"`
	Theme       string `gorm:"type:varchar(16);default:'light';comment:界面主题偏好"`
	Language    string `gorm:"type:varchar(8);default:'en';comment:语言偏好"`

	// 账号状态
	IsActive   bool   `gorm:"default:true;comment:是否启用"`
	IsVerified bool   `gorm:"default:false;comment:邮箱是否已验证"`
	Role       string `gorm:"type:varchar(16);default:'user';comment:角色"`

	// 认证与安全状态
	EmailVerificationToken   string     `gorm:"type:varchar(64);comment:邮箱验证令牌哈希"`
	EmailVerificationExpires *time.Time `gorm:"comment:邮箱验证令牌过期时间"`
	PasswordResetToken       string     `gorm:"type:varchar(64);comment:密码重置令牌哈希"`
	PasswordResetExpires     *time.Time `gorm:"comment:密码重置令牌过期时间"`
	LastLogin                *time.Time `gorm:"comment:最近登录时间"`
	LoginAttempts            int        `gorm:"default:0;comment:连续失败登录次数"`
	LockUntil                *time.Time `gorm:"comment:锁定截止时间"`

	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName 指定表名（全局配置使用单数表名）
func (User) TableName() string { return "user" }

// FullName 姓名拼接
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsLocked 账号是否处于锁定期：LockUntil 已设置且仍在未来
func (u *User) IsLocked() bool {
	return u.LockUntil != nil && u.LockUntil.After(time.Now())
}
