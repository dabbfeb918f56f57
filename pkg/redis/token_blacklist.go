package redis

import (
	"context"
	"errors"
	"time"
)

// RevokedTokenKeyPrefix 已注销令牌key前缀
const RevokedTokenKeyPrefix = "swap:revoked:"

// RevokeToken 将令牌ID加入黑名单，有效期与令牌剩余时间一致
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("token id is empty")
	}
	// 已过期的令牌无需记录
	if ttl <= 0 {
		return nil
	}
	return Set(ctx, RevokedTokenKeyPrefix+jti, 1, ttl)
}

// IsTokenRevoked 判断令牌是否已注销
func IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := Exists(ctx, RevokedTokenKeyPrefix+jti)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TokenDenyList 令牌黑名单，供认证中间件与登出流程使用
type TokenDenyList struct{}

func (TokenDenyList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return RevokeToken(ctx, jti, ttl)
}

func (TokenDenyList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return IsTokenRevoked(ctx, jti)
}
