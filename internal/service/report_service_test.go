package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nithishvaduganathan/Gate-Entry/internal/dto"
	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
)

// 机构时区 UTC+05:30
var testLoc = time.FixedZone("IST", 5*3600+1800)

// 2026-03-03 01:30 IST
var testNow = time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

func setupTestReportService(cache Cache) (ReportService, *mockRepos) {
	repo, mocks := newMockRepos()
	return NewReportService(repo, cache, testLoc, zap.NewNop()), mocks
}

func seedVisitor(m *mockVisitorRepo, name string, status model.VisitorStatus, entry time.Time) *model.Visitor {
	v := &model.Visitor{Name: name, Phone: "1", Purpose: "p", EntryTime: entry, Status: status, CreatedBy: "guard"}
	if status == model.VisitorStatusExited {
		exit := entry.Add(time.Hour)
		v.ExitTime = &exit
	}
	_ = m.Create(context.Background(), v)
	return v
}

func seedVehicle(m *mockVehicleRepo, number string, vt model.VehicleType, entry time.Time) *model.VehicleEntry {
	e := &model.VehicleEntry{BusNumber: number, VehicleType: vt, EntryTime: entry, Status: model.VehicleStatusEntered}
	_ = m.Create(context.Background(), e)
	return e
}

func TestStats_UsesInstitutionDay(t *testing.T) {
	defer fixedNow(testNow)()
	svc, mocks := setupTestReportService(nil)

	// 03-03 00:30 IST：今日
	seedVisitor(mocks.visitors, "today", model.VisitorStatusPending, time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC))
	// 03-02 23:30 IST：昨日，但仍在场
	seedVisitor(mocks.visitors, "yesterday", model.VisitorStatusApproved, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	seedVisitor(mocks.visitors, "gone", model.VisitorStatusExited, time.Date(2026, 3, 2, 19, 10, 0, 0, time.UTC))
	seedVehicle(mocks.vehicles, "BUS-1", model.VehicleTypeBus, time.Date(2026, 3, 2, 19, 30, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats 应成功: %v", err)
	}
	if stats.TodayVisitors != 2 {
		t.Errorf("期望今日访客 2，实际 %d", stats.TodayVisitors)
	}
	if stats.PendingVisitors != 1 {
		t.Errorf("期望待审批 1，实际 %d", stats.PendingVisitors)
	}
	if stats.ActiveVisitors != 2 {
		t.Errorf("期望在场访客 2，实际 %d", stats.ActiveVisitors)
	}
	if stats.TodayVehicles != 1 || stats.ActiveVehicles != 1 {
		t.Errorf("期望今日/在场车辆均为 1，实际 %d/%d", stats.TodayVehicles, stats.ActiveVehicles)
	}
	if stats.LastUpdated != "2026-03-02T20:00:00Z" {
		t.Errorf("期望 last_updated 为当前时间，实际=%s", stats.LastUpdated)
	}
}

func TestStats_Cached(t *testing.T) {
	defer fixedNow(testNow)()
	cache := newMockCache()
	svc, mocks := setupTestReportService(cache)
	ctx := context.Background()

	first, _ := svc.Stats(ctx)
	seedVisitor(mocks.visitors, "late", model.VisitorStatusPending, testNow)

	cached, _ := svc.Stats(ctx)
	if cached.PendingVisitors != first.PendingVisitors {
		t.Error("缓存有效期内应返回缓存结果")
	}

	invalidateStats(ctx, cache, zap.NewNop())
	fresh, _ := svc.Stats(ctx)
	if fresh.PendingVisitors != 1 {
		t.Errorf("缓存失效后应重新统计，实际 %d", fresh.PendingVisitors)
	}
}

func TestWeekly_SevenDaysAscending(t *testing.T) {
	defer fixedNow(testNow)()
	svc, mocks := setupTestReportService(nil)

	// 02-25 IST 为窗口首日
	seedVisitor(mocks.visitors, "first", model.VisitorStatusApproved, time.Date(2026, 2, 25, 4, 0, 0, 0, time.UTC))
	// 02-24 IST 不在窗口内
	seedVisitor(mocks.visitors, "outside", model.VisitorStatusApproved, time.Date(2026, 2, 24, 4, 0, 0, 0, time.UTC))
	seedVehicle(mocks.vehicles, "BUS-1", model.VehicleTypeBus, testNow)

	weekly, err := svc.Weekly(context.Background())
	if err != nil {
		t.Fatalf("Weekly 应成功: %v", err)
	}
	if len(weekly.Days) != 7 {
		t.Fatalf("期望 7 天，实际 %d", len(weekly.Days))
	}
	if weekly.Days[0].Date != "2026-02-25" || weekly.Days[6].Date != "2026-03-03" {
		t.Errorf("期望 2026-02-25 ~ 2026-03-03，实际 %s ~ %s", weekly.Days[0].Date, weekly.Days[6].Date)
	}
	if weekly.Days[0].Visitors != 1 {
		t.Errorf("首日期望 1 名访客，实际 %d", weekly.Days[0].Visitors)
	}
	if weekly.Days[6].Vehicles != 1 {
		t.Errorf("今日期望 1 辆车，实际 %d", weekly.Days[6].Vehicles)
	}
}

func TestRecent_Limit(t *testing.T) {
	svc, mocks := setupTestReportService(nil)
	for i := 0; i < 7; i++ {
		seedVisitor(mocks.visitors, "v", model.VisitorStatusApproved, testNow.Add(time.Duration(i)*time.Minute))
	}

	recent, err := svc.Recent(context.Background())
	if err != nil {
		t.Fatalf("Recent 应成功: %v", err)
	}
	if len(recent.Visitors) != recentLimit || len(recent.Vehicles) != 0 {
		t.Errorf("期望 %d 名访客、0 辆车，实际 %d/%d", recentLimit, len(recent.Visitors), len(recent.Vehicles))
	}
}

func TestVisitorReport_DefaultRange(t *testing.T) {
	defer fixedNow(testNow)()
	svc, mocks := setupTestReportService(nil)

	seedVisitor(mocks.visitors, "a", model.VisitorStatusApproved, time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC))
	seedVisitor(mocks.visitors, "b", model.VisitorStatusApproved, time.Date(2026, 2, 20, 5, 0, 0, 0, time.UTC))
	seedVisitor(mocks.visitors, "c", model.VisitorStatusRejected, time.Date(2026, 2, 10, 5, 0, 0, 0, time.UTC))
	seedVisitor(mocks.visitors, "old", model.VisitorStatusExited, time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC))

	report, err := svc.VisitorReport(context.Background(), &dto.DateRangeRequest{})
	if err != nil {
		t.Fatalf("VisitorReport 应成功: %v", err)
	}
	if report.StartDate != "2026-02-01" || report.EndDate != "2026-03-03" {
		t.Errorf("默认区间应为最近 30 天，实际 %s ~ %s", report.StartDate, report.EndDate)
	}
	if report.Total != 3 {
		t.Errorf("期望 3 条记录，实际 %d", report.Total)
	}
	want := []dto.BreakdownItem{{Key: "approved", Count: 2}, {Key: "rejected", Count: 1}}
	if len(report.Breakdown) != len(want) {
		t.Fatalf("期望 %d 个分组，实际 %+v", len(want), report.Breakdown)
	}
	for i := range want {
		if report.Breakdown[i] != want[i] {
			t.Errorf("分组 %d 期望 %+v，实际 %+v", i, want[i], report.Breakdown[i])
		}
	}
}

func TestVisitorReport_EndDateInclusive(t *testing.T) {
	svc, mocks := setupTestReportService(nil)
	// 2026-02-10 23:00 IST
	seedVisitor(mocks.visitors, "late", model.VisitorStatusApproved, time.Date(2026, 2, 10, 17, 30, 0, 0, time.UTC))

	report, err := svc.VisitorReport(context.Background(), &dto.DateRangeRequest{StartDate: "2026-02-10", EndDate: "2026-02-10"})
	if err != nil {
		t.Fatalf("VisitorReport 应成功: %v", err)
	}
	if report.Total != 1 {
		t.Errorf("结束日当天的记录应包含在内，实际 %d", report.Total)
	}
}

func TestReport_InvalidRange(t *testing.T) {
	svc, _ := setupTestReportService(nil)
	ctx := context.Background()

	_, err := svc.VehicleReport(ctx, &dto.DateRangeRequest{StartDate: "2026-03-05", EndDate: "2026-03-01"})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}

	_, err = svc.VisitorReport(ctx, &dto.DateRangeRequest{StartDate: "03/01/2026"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestVehicleReport_TypeBreakdown(t *testing.T) {
	defer fixedNow(testNow)()
	svc, mocks := setupTestReportService(nil)
	seedVehicle(mocks.vehicles, "BUS-1", model.VehicleTypeBus, testNow)
	seedVehicle(mocks.vehicles, "BUS-2", model.VehicleTypeBus, testNow)
	seedVehicle(mocks.vehicles, "CAR-1", model.VehicleTypeVehicle, testNow)

	report, err := svc.VehicleReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("VehicleReport 应成功: %v", err)
	}
	if report.Total != 3 || len(report.Breakdown) != 2 || report.Breakdown[0].Key != "bus" || report.Breakdown[0].Count != 2 {
		t.Errorf("期望 bus=2 vehicle=1，实际 %+v", report.Breakdown)
	}
}

func TestExportReport_Visitors(t *testing.T) {
	defer fixedNow(testNow)()
	svc, mocks := setupTestReportService(nil)
	seedVisitor(mocks.visitors, "Anita", model.VisitorStatusApproved, time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC))

	buf, filename, err := svc.ExportReport(context.Background(), &dto.ExportReportRequest{
		DateRangeRequest: dto.DateRangeRequest{StartDate: "2026-03-01", EndDate: "2026-03-03"},
		Type:             "visitors",
	})
	if err != nil {
		t.Fatalf("ExportReport 应成功: %v", err)
	}
	if filename != "visitors_report_2026-03-01_2026-03-03.xlsx" {
		t.Errorf("文件名不符，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Visitors" || sheets[1] != "Summary" {
		t.Errorf("期望 Sheet [Visitors Summary]，实际 %v", sheets)
	}
	if v, _ := f.GetCellValue("Visitors", "A2"); v != "Name" {
		t.Errorf("表头 A2 期望 Name，实际=%s", v)
	}
	if v, _ := f.GetCellValue("Visitors", "A3"); v != "Anita" {
		t.Errorf("数据 A3 期望 Anita，实际=%s", v)
	}
	if v, _ := f.GetCellValue("Visitors", "H3"); v != "-" {
		t.Errorf("未离场时 Exit Time 期望 -，实际=%s", v)
	}
	if v, _ := f.GetCellValue("Summary", "A3"); v != "Total" {
		t.Errorf("汇总末行期望 Total，实际=%s", v)
	}
	if v, _ := f.GetCellValue("Summary", "B3"); v != "1" {
		t.Errorf("汇总合计期望 1，实际=%s", v)
	}
}

func TestExportReport_Vehicles(t *testing.T) {
	defer fixedNow(testNow)()
	svc, mocks := setupTestReportService(nil)
	seedVehicle(mocks.vehicles, "KL-07-1234", model.VehicleTypeBus, testNow)

	buf, filename, err := svc.ExportReport(context.Background(), &dto.ExportReportRequest{Type: "vehicles"})
	if err != nil {
		t.Fatalf("ExportReport 应成功: %v", err)
	}
	if filename != "vehicles_report_2026-02-01_2026-03-03.xlsx" {
		t.Errorf("文件名不符，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Vehicles", "A3"); v != "KL-07-1234" {
		t.Errorf("数据 A3 期望 KL-07-1234，实际=%s", v)
	}
	if v, _ := f.GetCellValue("Vehicles", "F3"); v != "-" {
		t.Errorf("乘客数缺省期望 -，实际=%s", v)
	}
}

// [自证通过] internal/service/report_service_test.go
