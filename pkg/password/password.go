package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost bcrypt代价因子
const Cost = 12

// Hash 生成密码哈希
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 校验密码
// 哈希为空时返回 false 而非错误（未设置密码的账号永远校验失败）
func Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
