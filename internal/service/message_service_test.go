package service

import (
	"context"
	"sync"
	"testing"

	"skill-swap/internal/model"
	"skill-swap/internal/testutil"
	"skill-swap/pkg/events"
	pkgredis "skill-swap/pkg/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndListMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@example.com", "A")
	b := f.user(t, "b@example.com", "B")

	empty, err := f.messages.ListMessages(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i, content := range []string{"hi", "hello", "how are you?"} {
		sender, receiver := a.ID, b.ID
		if i%2 == 1 {
			sender, receiver = b.ID, a.ID
		}
		m, err := f.messages.SendMessage(ctx, sender, SendMessageInput{ReceiverID: receiver, Content: content})
		require.NoError(t, err)
		assert.Equal(t, sender, m.SenderID)
	}

	ab, err := f.messages.ListMessages(ctx, a.ID, b.ID)
	require.NoError(t, err)
	ba, err := f.messages.ListMessages(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, ab, 3)
	assert.Equal(t, messageIDs(ab), messageIDs(ba))
	assert.Equal(t, "hi", ab[0].Content)
	assert.Equal(t, "how are you?", ab[2].Content)
	for i := 1; i < len(ab); i++ {
		assert.False(t, ab[i].CreatedAt.Before(ab[i-1].CreatedAt))
	}
	assert.Len(t, f.publisher.published(), 3)
	assert.Equal(t, events.MessageSent, f.publisher.published()[0])
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@example.com", "A")

	_, err := f.messages.SendMessage(ctx, a.ID, SendMessageInput{ReceiverID: 999, Content: "hi"})
	assertKind(t, err, model.KindNotFound)
	_, err = f.messages.SendMessage(ctx, a.ID, SendMessageInput{ReceiverID: a.ID, Content: "hi"})
	assertKind(t, err, model.KindValidation)
	_, err = f.messages.SendMessage(ctx, a.ID, SendMessageInput{ReceiverID: 999, Content: "   "})
	assertKind(t, err, model.KindValidation)
	_, err = f.messages.SendMessage(ctx, a.ID, SendMessageInput{Content: "hi"})
	assertKind(t, err, model.KindValidation)
	_, err = f.messages.ListMessages(ctx, a.ID, 0)
	assertKind(t, err, model.KindValidation)
}

func TestRequireAcceptedSwap(t *testing.T) {
	f := newFixture(t, WithRequireAcceptedSwap(true))
	ctx := context.Background()
	a := f.user(t, "a@example.com", "A")
	b := f.user(t, "b@example.com", "B")
	skill := testutil.CreateSkill(t, f.db, a.ID, "React", "Tech", model.SkillTypeTeach)

	_, err := f.messages.SendMessage(ctx, b.ID, SendMessageInput{ReceiverID: a.ID, Content: "hi"})
	assertKind(t, err, model.KindForbidden)
	_, err = f.messages.ListMessages(ctx, b.ID, a.ID)
	assertKind(t, err, model.KindForbidden)

	req, err := f.swaps.CreateRequest(ctx, b.ID, CreateRequestInput{ReceiverID: a.ID, SkillID: skill.ID})
	require.NoError(t, err)
	_, err = f.messages.SendMessage(ctx, b.ID, SendMessageInput{ReceiverID: a.ID, Content: "hi"})
	assertKind(t, err, model.KindForbidden)

	_, err = f.swaps.UpdateStatus(ctx, a.ID, req.ID, model.SwapStatusAccepted)
	require.NoError(t, err)
	_, err = f.messages.SendMessage(ctx, b.ID, SendMessageInput{ReceiverID: a.ID, Content: "hi"})
	require.NoError(t, err)
	msgs, err := f.messages.ListMessages(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestThreadCacheReadThroughAndInvalidation(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	f := newFixture(t, WithThreadCache(cache))
	ctx := context.Background()
	a := f.user(t, "a@example.com", "A")
	b := f.user(t, "b@example.com", "B")

	_, err := f.messages.SendMessage(ctx, a.ID, SendMessageInput{ReceiverID: b.ID, Content: "one"})
	require.NoError(t, err)

	first, err := f.messages.ListMessages(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(pkgredis.ThreadKey(a.ID, b.ID)))

	// 命中缓存：直接写库的数据不可见
	require.NoError(t, f.db.Create(&model.Message{SenderID: b.ID, ReceiverID: a.ID, Content: "bypass"}).Error)
	cached, err := f.messages.ListMessages(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// 发送消息后缓存失效
	_, err = f.messages.SendMessage(ctx, b.ID, SendMessageInput{ReceiverID: a.ID, Content: "two"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(pkgredis.ThreadKey(a.ID, b.ID)))

	fresh, err := f.messages.ListMessages(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestThreadCacheFailureFallsBackToDatabase(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	f := newFixture(t, WithThreadCache(cache))
	ctx := context.Background()
	a := f.user(t, "a@example.com", "A")
	b := f.user(t, "b@example.com", "B")

	mr.Close()

	_, err := f.messages.SendMessage(ctx, a.ID, SendMessageInput{ReceiverID: b.ID, Content: "still works"})
	require.NoError(t, err)
	msgs, err := f.messages.ListMessages(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

// interleavingCache 在第一次回填写入前执行 beforeSet，模拟并发发送
type interleavingCache struct {
	ThreadCache
	once      sync.Once
	beforeSet func()
}

func (c *interleavingCache) Set(ctx context.Context, userA, userB uint, messages []*model.Message, version int64) (bool, error) {
	c.once.Do(c.beforeSet)
	return c.ThreadCache.Set(ctx, userA, userB, messages, version)
}

func TestThreadCacheRefillDoesNotHideConcurrentSend(t *testing.T) {
	inner, mr := newMiniredisCache(t)
	cache := &interleavingCache{ThreadCache: inner}
	f := newFixture(t, WithThreadCache(cache))
	ctx := context.Background()
	a := f.user(t, "a@example.com", "A")
	b := f.user(t, "b@example.com", "B")

	cache.beforeSet = func() {
		_, err := f.messages.SendMessage(ctx, a.ID, SendMessageInput{ReceiverID: b.ID, Content: "hello"})
		require.NoError(t, err)
	}

	// 查库时消息尚未写入
	first, err := f.messages.ListMessages(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.False(t, mr.Exists(pkgredis.ThreadKey(a.ID, b.ID)), "stale thread must not be cached")

	for poll := 0; poll < 2; poll++ {
		msgs, err := f.messages.ListMessages(ctx, a.ID, b.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 1, "poll %d", poll)
		assert.Equal(t, "hello", msgs[0].Content)
	}
	assert.True(t, mr.Exists(pkgredis.ThreadKey(a.ID, b.ID)))
}
