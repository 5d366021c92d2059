package dto

// ── 看板 / 报表 / 搜索 DTO ──

// DashboardStats 看板实时统计
type DashboardStats struct {
	TodayVisitors   int64  `json:"today_visitors"`
	PendingVisitors int64  `json:"pending_visitors"`
	ActiveVisitors  int64  `json:"active_visitors"`
	TodayVehicles   int64  `json:"today_vehicles"`
	ActiveVehicles  int64  `json:"active_vehicles"`
	LastUpdated     string `json:"last_updated"`
}

// DailyCount 单日计数
type DailyCount struct {
	Date     string `json:"date"` // YYYY-MM-DD（机构时区）
	Visitors int64  `json:"visitors"`
	Vehicles int64  `json:"vehicles"`
}

// WeeklyResponse 近 7 日趋势，按日期升序
type WeeklyResponse struct {
	Days []DailyCount `json:"days"`
}

// RecentResponse 最近登记
type RecentResponse struct {
	Visitors []VisitorResponse `json:"visitors"`
	Vehicles []VehicleResponse `json:"vehicles"`
}

// BreakdownItem 分组计数
type BreakdownItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// VisitorReport 访客报表
type VisitorReport struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Total     int               `json:"total"`
	Breakdown []BreakdownItem   `json:"status_breakdown"`
	Visitors  []VisitorResponse `json:"visitors"`
}

// VehicleReport 车辆报表
type VehicleReport struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Total     int               `json:"total"`
	Breakdown []BreakdownItem   `json:"type_breakdown"`
	Vehicles  []VehicleResponse `json:"vehicles"`
}

// ExportReportRequest 报表导出参数
type ExportReportRequest struct {
	DateRangeRequest
	Type string `form:"type" binding:"required,oneof=visitors vehicles"`
}

// SearchRequest 全局搜索参数
type SearchRequest struct {
	Q    string `form:"q"    binding:"omitempty,max=100"`
	Type string `form:"type" binding:"omitempty,oneof=all visitors vehicles"`
}

// SearchResponse 全局搜索结果（每类最多 10 条）
type SearchResponse struct {
	Visitors []VisitorResponse `json:"visitors"`
	Vehicles []VehicleResponse `json:"vehicles"`
}

// [自证通过] internal/dto/report.go
