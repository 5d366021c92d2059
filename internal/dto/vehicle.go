package dto

// ── 车辆模块 DTO ──

// RegisterVehicleRequest 车辆入校登记
type RegisterVehicleRequest struct {
	BusNumber      string `json:"bus_number"      binding:"required,max=50"`
	DriverName     string `json:"driver_name"     binding:"omitempty,max=100"`
	DriverPhone    string `json:"driver_phone"    binding:"omitempty,max=20"`
	Route          string `json:"route"           binding:"omitempty,max=100"`
	PassengerCount *int   `json:"passenger_count" binding:"omitempty,min=0"`
	VehicleType    string `json:"vehicle_type"    binding:"omitempty,oneof=bus vehicle"`
	Notes          string `json:"notes"`
}

// VehicleListRequest 车辆列表查询参数
type VehicleListRequest struct {
	PaginationRequest
	Search string `form:"search" binding:"omitempty,max=100"`
	Type   string `form:"type"   binding:"omitempty,oneof=bus vehicle"`
}

// ActiveVehicleRequest 在场车辆查询参数
type ActiveVehicleRequest struct {
	Type string `form:"type" binding:"omitempty,oneof=bus vehicle"`
}

// VehicleResponse 车辆出入记录
type VehicleResponse struct {
	ID             string  `json:"id"`
	BusNumber      string  `json:"bus_number"`
	DriverName     string  `json:"driver_name"`
	DriverPhone    string  `json:"driver_phone"`
	EntryTime      string  `json:"entry_time"`
	ExitTime       *string `json:"exit_time"`
	Route          string  `json:"route"`
	PassengerCount *int    `json:"passenger_count"`
	Status         string  `json:"status"`
	VehicleType    string  `json:"vehicle_type"`
	CreatedBy      string  `json:"created_by"`
	Notes          string  `json:"notes,omitempty"`
}

// [自证通过] internal/dto/vehicle.go
