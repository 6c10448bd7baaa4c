package service

import (
	"strings"
	"testing"
	"time"

	"chat-app/config"
	"chat-app/internal/repository/memory"
	"chat-app/pkg/errs"
	"chat-app/pkg/jwt"
	"chat-app/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	jwtSvc := jwt.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
		Issuer:     "chat-app",
	})
	return NewUserService(users, jwtSvc), users
}

func validInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Password:  "wonderland",
	}
}

func TestRegister(t *testing.T) {
	svc, users := newUserFixture(t)

	u, verificationToken, err := svc.Register(validInput())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, verificationToken)

	// 明文密码不落库
	stored, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "wonderland", stored.PasswordHash)
	assert.True(t, password.Verify("wonderland", stored.PasswordHash))

	// 验证令牌只存哈希
	assert.NotEqual(t, verificationToken, stored.EmailVerificationToken)
	require.NotNil(t, stored.EmailVerificationExpires)
	assert.True(t, stored.EmailVerificationExpires.After(time.Now()))
}

func TestRegister_EmailNormalized(t *testing.T) {
	svc, _ := newUserFixture(t)

	in := validInput()
	in.Email = "  Alice@Example.COM "
	u, _, err := svc.Register(in)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newUserFixture(t)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing username", func(in *RegisterInput) { in.Username = "" }},
		{"missing firstName", func(in *RegisterInput) { in.FirstName = "" }},
		{"missing lastName", func(in *RegisterInput) { in.LastName = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"username too short", func(in *RegisterInput) { in.Username = "ab" }},
		{"username illegal chars", func(in *RegisterInput) { in.Username = "alice!" }},
		{"username too long", func(in *RegisterInput) { in.Username = strings.Repeat("a", 31) }},
		{"invalid email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"password too short", func(in *RegisterInput) { in.Password = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, _, err := svc.Register(in)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, _, err := svc.Register(validInput())
	require.NoError(t, err)

	in := validInput()
	in.Username = "alice2"
	in.Email = "ALICE@example.com" // 大小写不同仍视为重复
	_, _, err = svc.Register(in)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrEmailExists))
}

func TestLogin(t *testing.T) {
	svc, _ := newUserFixture(t)
	_, _, err := svc.Register(validInput())
	require.NoError(t, err)

	u, signed, err := svc.Login("alice", "wonderland")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.NotNil(t, u.LastLogin)

	// 邮箱同样可以作为登录标识
	_, signed, err = svc.Login("alice@example.com", "wonderland")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, _, err := svc.Login("ghost", "whatever")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInvalidCredentials))
	assert.Equal(t, "user not found", errs.GetMessage(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users := newUserFixture(t)
	registered, _, err := svc.Register(validInput())
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInvalidCredentials))

	// 失败登录递增计数
	stored, err := users.GetByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.LoginAttempts)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, _, err := svc.Login("", "")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestLoginAttempts_LockCycle(t *testing.T) {
	svc, users := newUserFixture(t)
	registered, _, err := svc.Register(validInput())
	require.NoError(t, err)

	// 连续失败5次后设置锁定截止时间
	for i := 0; i < maxLoginAttempts; i++ {
		_, _, err = svc.Login("alice", "wrong")
		require.Error(t, err)
	}
	stored, err := users.GetByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, maxLoginAttempts, stored.LoginAttempts)
	require.NotNil(t, stored.LockUntil)
	assert.True(t, stored.IsLocked())

	// 成功登录清零计数并解除锁定标记
	_, _, err = svc.Login("alice", "wonderland")
	require.NoError(t, err)
	stored, err = users.GetByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LoginAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestIncrementLoginAttempts_ExpiredLockRestarts(t *testing.T) {
	svc, users := newUserFixture(t)
	registered, _, err := svc.Register(validInput())
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, users.UpdateLoginState(registered.ID, maxLoginAttempts, &past))

	u, err := users.GetByID(registered.ID)
	require.NoError(t, err)
	require.NoError(t, svc.IncrementLoginAttempts(u))

	stored, err := users.GetByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.LoginAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestComparePassword(t *testing.T) {
	svc, users := newUserFixture(t)
	registered, _, err := svc.Register(validInput())
	require.NoError(t, err)

	stored, err := users.GetByID(registered.ID)
	require.NoError(t, err)
	assert.True(t, svc.ComparePassword(stored, "wonderland"))
	assert.False(t, svc.ComparePassword(stored, "Wonderland"))
	assert.False(t, svc.ComparePassword(stored, ""))

	// 未设置哈希时直接返回 false
	stored.PasswordHash = ""
	assert.False(t, svc.ComparePassword(stored, "wonderland"))
}

func TestGeneratePasswordResetToken(t *testing.T) {
	svc, users := newUserFixture(t)
	registered, _, err := svc.Register(validInput())
	require.NoError(t, err)

	plain, err := svc.GeneratePasswordResetToken("alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, plain)

	stored, err := users.GetByID(registered.ID)
	require.NoError(t, err)
	assert.NotEqual(t, plain, stored.PasswordResetToken)
	require.NotNil(t, stored.PasswordResetExpires)
	assert.True(t, stored.PasswordResetExpires.After(time.Now()))
	assert.True(t, stored.PasswordResetExpires.Before(time.Now().Add(11*time.Minute)))

	_, err = svc.GeneratePasswordResetToken("nobody@example.com")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrUserNotFound))
}

func TestGetByUsername(t *testing.T) {
	svc, _ := newUserFixture(t)
	_, _, err := svc.Register(validInput())
	require.NoError(t, err)

	u, err := svc.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = svc.GetByUsername("ghost")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrUserNotFound))
}
