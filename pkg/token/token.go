package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// 一次性令牌有效期
const (
	EmailVerificationTTL = 24 * time.Hour   // 邮箱验证令牌
	PasswordResetTTL     = 10 * time.Minute // 密码重置令牌
)

// Generate 生成一次性令牌
// 返回明文令牌（仅此一次交给调用方）、存库用的SHA-256哈希和过期时间
func Generate(ttl time.Duration) (plain string, hashed string, expiresAt time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		err = fmt.Errorf("generate token failed: %w", err)
		return
	}
	plain = hex.EncodeToString(buf)
	hashed = HashToken(plain)
	expiresAt = time.Now().Add(ttl)
	return
}

// HashToken 计算令牌的存储形态，明文永不落库
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
