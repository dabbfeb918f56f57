package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"skill-swap/config"
	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/internal/testutil"
	"skill-swap/pkg/events"
	"skill-swap/pkg/jwt"
	pkgredis "skill-swap/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error { return nil }

// published 返回按顺序发布的路由键
func (m *mockPublisher) published() []string {
	keys := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		if c.Method == "Publish" {
			keys = append(keys, c.Arguments.String(1))
		}
	}
	return keys
}

type fixture struct {
	db        *gorm.DB
	publisher *mockPublisher
	jwt       *jwt.JWTService
	users     *UserService
	skills    *SkillService
	swaps     *SwapService
	messages  *MessageService
	reviews   *ReviewService
	userRepo  *repository.UserRepository
	swapRepo  *repository.SwapRequestRepository
}

func newFixture(t *testing.T, opts ...MessageServiceOption) *fixture {
	t.Helper()
	gdb := testutil.NewSQLiteDB(t)

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test", ExpireTime: time.Hour, Issuer: "test"})
	userRepo := repository.NewUserRepository(gdb)
	skillRepo := repository.NewSkillRepository(gdb)
	swapRepo := repository.NewSwapRequestRepository(gdb)
	messageRepo := repository.NewMessageRepository(gdb)
	reviewRepo := repository.NewReviewRepository(gdb)

	opts = append([]MessageServiceOption{WithPublisher(pub)}, opts...)
	return &fixture{
		db:        gdb,
		publisher: pub,
		jwt:       jwtSvc,
		users:     NewUserService(userRepo, jwtSvc, nil, pub),
		skills:    NewSkillService(skillRepo, userRepo),
		swaps:     NewSwapService(swapRepo, userRepo, skillRepo, pub),
		messages:  NewMessageService(messageRepo, userRepo, swapRepo, opts...),
		reviews:   NewReviewService(reviewRepo, userRepo, pub),
		userRepo:  userRepo,
		swapRepo:  swapRepo,
	}
}

func (f *fixture) user(t *testing.T, username, name string) *model.User {
	t.Helper()
	return testutil.CreateUser(t, f.db, username, name)
}

func newMiniredisCache(t *testing.T) (*pkgredis.ThreadCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	pkgredis.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = pkgredis.Close() })
	return pkgredis.NewThreadCache(time.Minute), mr
}

func assertKind(t *testing.T, err error, kind model.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, model.KindOf(err), "unexpected error: %v", err)
}

var _ events.Publisher = (*mockPublisher)(nil)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func messageIDs(msgs []*model.Message) []uint {
	ids := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	return ids
}
