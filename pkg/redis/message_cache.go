package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"skill-swap/internal/model"

	"github.com/redis/go-redis/v9"
)

// ThreadKeyPrefix 会话消息缓存key前缀
const ThreadKeyPrefix = "swap:thread:"

// DefaultThreadTTL 未配置时的会话缓存TTL
const DefaultThreadTTL = 10 * time.Minute

// ThreadKey 会话缓存key，两个用户ID按大小排序，保证双方共享同一份缓存
func ThreadKey(userA, userB uint) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%s%d:%d", ThreadKeyPrefix, userA, userB)
}

// ThreadVersionKey 会话版本号key，每次发送消息自增
func ThreadVersionKey(userA, userB uint) string {
	return ThreadKey(userA, userB) + ":ver"
}

// ThreadVersionTTL 版本号保留时间，需远大于会话缓存TTL
const ThreadVersionTTL = 24 * time.Hour

// 仅当版本号未变化时写入缓存；版本号不存在视为 0
var setIfVersionScript = redis.NewScript(`
local ver = redis.call('GET', KEYS[2])
if ver == false then ver = '0' end
if ver ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ThreadVersion 读取会话当前版本号，回填缓存前调用
func ThreadVersion(ctx context.Context, userA, userB uint) (int64, error) {
	data, err := Get(ctx, ThreadVersionKey(userA, userB))
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(data, 10, 64)
}

// CacheThread 以版本号为条件缓存两人之间的完整消息列表
// 读取版本号之后若有新消息写入，版本号已变化，本次回填被放弃，stored 为 false
func CacheThread(ctx context.Context, userA, userB uint, messages []*model.Message, ttl time.Duration, version int64) (stored bool, err error) {
	if client == nil {
		return false, ErrNotInitialized
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return false, fmt.Errorf("序列化消息失败: %w", err)
	}
	keys := []string{ThreadKey(userA, userB), ThreadVersionKey(userA, userB)}
	n, err := setIfVersionScript.Run(ctx, client, keys, strconv.FormatInt(version, 10), data, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("缓存会话消息失败: %w", err)
	}
	return n == 1, nil
}

// GetCachedThread 获取缓存的会话消息，未命中时 found 为 false
func GetCachedThread(ctx context.Context, userA, userB uint) (messages []*model.Message, found bool, err error) {
	data, err := Get(ctx, ThreadKey(userA, userB))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := json.Unmarshal([]byte(data), &messages); err != nil {
		return nil, false, fmt.Errorf("反序列化消息失败: %w", err)
	}
	return messages, true, nil
}

// InvalidateThread 版本号自增并清除会话缓存，使进行中的回填失效
func InvalidateThread(ctx context.Context, userA, userB uint) error {
	if client == nil {
		return ErrNotInitialized
	}
	verKey := ThreadVersionKey(userA, userB)
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, ThreadVersionTTL)
		pipe.Del(ctx, ThreadKey(userA, userB))
		return nil
	})
	return err
}

// ThreadCache 基于全局客户端的会话缓存，供消息服务注入
type ThreadCache struct {
	TTL time.Duration
}

// NewThreadCache 创建会话缓存
func NewThreadCache(ttl time.Duration) *ThreadCache {
	if ttl <= 0 {
		ttl = DefaultThreadTTL
	}
	return &ThreadCache{TTL: ttl}
}

func (c *ThreadCache) Get(ctx context.Context, userA, userB uint) ([]*model.Message, bool, error) {
	return GetCachedThread(ctx, userA, userB)
}

func (c *ThreadCache) Version(ctx context.Context, userA, userB uint) (int64, error) {
	return ThreadVersion(ctx, userA, userB)
}

func (c *ThreadCache) Set(ctx context.Context, userA, userB uint, messages []*model.Message, version int64) (bool, error) {
	return CacheThread(ctx, userA, userB, messages, c.TTL, version)
}

func (c *ThreadCache) Invalidate(ctx context.Context, userA, userB uint) error {
	return InvalidateThread(ctx, userA, userB)
}
