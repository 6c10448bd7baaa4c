package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"chat-app/internal/model"
	"chat-app/pkg/errs"
	"chat-app/pkg/jwt"
	"chat-app/pkg/password"
	"chat-app/pkg/token"

	"gorm.io/gorm"
)

// 登录安全参数：连续失败5次锁定2小时
const (
	maxLoginAttempts = 5
	lockDuration     = 2 * time.Hour
)

var (
	usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	emailRegexp    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

// RegisterInput 注册入参
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService 用户业务规则：注册校验、凭证哈希、登录与失败计数、一次性令牌
type UserService struct {
	users      UserStore
	jwtService *jwt.JWTService
}

// NewUserService 创建UserService实例
func NewUserService(users UserStore, jwtService *jwt.JWTService) *UserService {
	return &UserService{users: users, jwtService: jwtService}
}

// Register 注册
// 五个字段均为必填；邮箱唯一性在插入前显式检查，存储层唯一约束兜底
// 密码以 bcrypt(cost=12) 哈希后入库，明文不落库不记日志
// 返回用户与明文邮箱验证令牌（仅此一次，库中只存哈希）
func (s *UserService) Register(in RegisterInput) (*model.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validateRegisterInput(in); err != nil {
		return nil, "", err
	}

	exists, err := s.users.ExistsByEmail(in.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", errs.ErrEmailExists
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	plainToken, hashedToken, expiresAt, err := token.Generate(token.EmailVerificationTTL)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Username:                 in.Username,
		Email:                    in.Email,
		PasswordHash:             hash,
		FirstName:                in.FirstName,
		LastName:                 in.LastName,
		EmailVerificationToken:   hashedToken,
		EmailVerificationExpires: &expiresAt,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errs.ErrEmailExists.Wrap(err)
		}
		return nil, "", err
	}
	return user, plainToken, nil
}

// validateRegisterInput 注册字段校验
func validateRegisterInput(in RegisterInput) error {
	if in.Username == "" || in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return errs.ErrValidation
	}
	if !usernameRegexp.MatchString(in.Username) {
		return errs.ErrValidation.WithMessage("username can only contain letters, numbers and underscores (3-30 characters)")
	}
	if !emailRegexp.MatchString(in.Email) {
		return errs.ErrValidation.WithMessage("please enter a valid email")
	}
	if len(in.Password) < 4 {
		return errs.ErrValidation.WithMessage("password must be at least 4 characters long")
	}
	return nil
}

// Login 登录
// identifier 可以是用户名或邮箱
// 失败登录会递增失败计数（第5次触发锁定标记），成功登录重置计数
// 注意：沿用原始行为，锁定状态本身并不会阻断登录尝试
func (s *UserService) Login(identifier, plainPassword string) (*model.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || plainPassword == "" {
		return nil, "", errs.ErrValidation.WithMessage("username and password are required")
	}

	u, err := s.users.GetByUsernameOrEmail(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errs.ErrInvalidCredentials.WithMessage("user not found")
		}
		return nil, "", err
	}

	if !password.Verify(plainPassword, u.PasswordHash) {
		if err := s.IncrementLoginAttempts(u); err != nil {
			return nil, "", err
		}
		return nil, "", errs.ErrInvalidCredentials
	}

	if err := s.ResetLoginAttempts(u); err != nil {
		return nil, "", err
	}
	now := time.Now()
	u.LastLogin = &now
	if err := s.users.UpdateLastLogin(u.ID, now); err != nil {
		return nil, "", err
	}

	signed, err := s.jwtService.GenerateToken(u.ID, u.Username, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, signed, nil
}

// IncrementLoginAttempts 记录一次失败登录
// 上一次锁定已过期时重新从1开始计数；连续达到上限时设置锁定截止时间
func (s *UserService) IncrementLoginAttempts(u *model.User) error {
	if u.LockUntil != nil && u.LockUntil.Before(time.Now()) {
		u.LoginAttempts = 1
		u.LockUntil = nil
		return s.users.UpdateLoginState(u.ID, u.LoginAttempts, nil)
	}

	u.LoginAttempts++
	if u.LoginAttempts >= maxLoginAttempts && !u.IsLocked() {
		until := time.Now().Add(lockDuration)
		u.LockUntil = &until
	}
	return s.users.UpdateLoginState(u.ID, u.LoginAttempts, u.LockUntil)
}

// ResetLoginAttempts 成功登录后清零失败计数并解除锁定标记
func (s *UserService) ResetLoginAttempts(u *model.User) error {
	if u.LoginAttempts == 0 && u.LockUntil == nil {
		return nil
	}
	u.LoginAttempts = 0
	u.LockUntil = nil
	return s.users.UpdateLoginState(u.ID, 0, nil)
}

// ComparePassword 校验候选密码是否与存储哈希匹配
// 未设置哈希时返回 false 而非错误
func (s *UserService) ComparePassword(u *model.User, candidate string) bool {
	return password.Verify(candidate, u.PasswordHash)
}

// GeneratePasswordResetToken 生成密码重置令牌（10分钟有效）
// 返回明文令牌，库中仅存哈希
func (s *UserService) GeneratePasswordResetToken(email string) (string, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.ErrUserNotFound.Wrap(err)
		}
		return "", err
	}

	plainToken, hashedToken, expiresAt, err := token.Generate(token.PasswordResetTTL)
	if err != nil {
		return "", err
	}
	u.PasswordResetToken = hashedToken
	u.PasswordResetExpires = &expiresAt
	if err := s.users.Save(u); err != nil {
		return "", err
	}
	return plainToken, nil
}

// GetByID 按ID获取用户
func (s *UserService) GetByID(id uint) (*model.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound.Wrap(err)
		}
		return nil, err
	}
	return u, nil
}

// GetByUsername 按用户名获取用户
func (s *UserService) GetByUsername(username string) (*model.User, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound.Wrap(err)
		}
		return nil, err
	}
	return u, nil
}
