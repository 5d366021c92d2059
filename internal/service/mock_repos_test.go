package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nithishvaduganathan/Gate-Entry/internal/model"
	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	pkgerrors "github.com/nithishvaduganathan/Gate-Entry/pkg/errors"
)

// ── 测试辅助 ──

// mockRepos 内存仓储集合；Repository 未绑定数据库，Transaction 直接执行回调
type mockRepos struct {
	users         *mockUserRepo
	authorities   *mockAuthorityRepo
	visitors      *mockVisitorRepo
	vehicles      *mockVehicleRepo
	notifications *mockNotificationRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:         newMockUserRepo(),
		authorities:   newMockAuthorityRepo(),
		visitors:      newMockVisitorRepo(),
		vehicles:      newMockVehicleRepo(),
		notifications: newMockNotificationRepo(),
	}
	repo := &repository.Repository{
		User:         m.users,
		Authority:    m.authorities,
		Visitor:      m.visitors,
		Vehicle:      m.vehicles,
		Notification: m.notifications,
	}
	return repo, m
}

// seq 生成可排序的测试 ID
type seq struct{ n int }

func (s *seq) next(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-%03d", prefix, s.n)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	ids   seq
	users map[string]*model.User // key: id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	if user.ID == "" {
		user.ID = m.ids.next("user")
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateRoleByUsername(_ context.Context, username string, role model.UserRole) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Username == username {
			u.Role = role
			n++
		}
	}
	return n, nil
}

// ── Mock AuthorityRepository ──

type mockAuthorityRepo struct {
	ids         seq
	authorities map[string]*model.Authority
}

func newMockAuthorityRepo() *mockAuthorityRepo {
	return &mockAuthorityRepo{authorities: make(map[string]*model.Authority)}
}

func (m *mockAuthorityRepo) Create(_ context.Context, a *model.Authority) error {
	if a.ID == "" {
		a.ID = m.ids.next("auth")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	m.authorities[a.ID] = &cp
	return nil
}

func (m *mockAuthorityRepo) GetByID(_ context.Context, id string) (*model.Authority, error) {
	if a, ok := m.authorities[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAuthorityRepo) Update(_ context.Context, a *model.Authority) error {
	cp := *a
	m.authorities[a.ID] = &cp
	return nil
}

func (m *mockAuthorityRepo) ListActive(ctx context.Context) ([]model.Authority, error) {
	all, _ := m.ListAll(ctx)
	var result []model.Authority
	for _, a := range all {
		if a.IsActive {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAuthorityRepo) ListAll(_ context.Context) ([]model.Authority, error) {
	var result []model.Authority
	for _, a := range m.authorities {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockAuthorityRepo) ListByIDs(_ context.Context, ids []string) ([]model.Authority, error) {
	var result []model.Authority
	for _, id := range ids {
		if a, ok := m.authorities[id]; ok {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAuthorityRepo) FirstByDesignation(_ context.Context, d model.Designation) (*model.Authority, error) {
	var found *model.Authority
	for _, a := range m.authorities {
		if a.Designation != d {
			continue
		}
		if found == nil || a.ID < found.ID {
			found = a
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

// ── Mock VisitorRepository ──

type mockVisitorRepo struct {
	ids      seq
	visitors map[string]*model.Visitor
}

func newMockVisitorRepo() *mockVisitorRepo {
	return &mockVisitorRepo{visitors: make(map[string]*model.Visitor)}
}

func (m *mockVisitorRepo) Create(_ context.Context, v *model.Visitor) error {
	if v.ID == "" {
		v.ID = m.ids.next("visitor")
	}
	cp := *v
	m.visitors[v.ID] = &cp
	return nil
}

func (m *mockVisitorRepo) GetByID(_ context.Context, id string) (*model.Visitor, error) {
	if v, ok := m.visitors[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVisitorRepo) UpdateIfStatus(_ context.Context, id string, from []model.VisitorStatus, updates map[string]interface{}) error {
	v, ok := m.visitors[id]
	if !ok || !visitorStatusIn(v.Status, from) {
		return pkgerrors.ErrOptimisticLock
	}
	for k, val := range updates {
		switch k {
		case "status":
			v.Status = val.(model.VisitorStatus)
		case "exit_time":
			t := val.(time.Time)
			v.ExitTime = &t
		case "authority_permission_granted":
			v.AuthorityPermissionGranted = val.(bool)
		case "permission_granted_at":
			t := val.(time.Time)
			v.PermissionGrantedAt = &t
		default:
			panic("mockVisitorRepo: 未支持的字段 " + k)
		}
	}
	return nil
}

func (m *mockVisitorRepo) ListActive(_ context.Context) ([]model.Visitor, error) {
	return m.filter(func(v *model.Visitor) bool {
		return visitorStatusIn(v.Status, model.ActiveVisitorStatuses) && v.ExitTime == nil
	}), nil
}

func (m *mockVisitorRepo) List(_ context.Context, f repository.VisitorListFilters, offset, limit int) ([]model.Visitor, int64, error) {
	all := m.filter(func(v *model.Visitor) bool {
		if f.Status != "" && v.Status != f.Status {
			return false
		}
		if f.Search != "" && !(strings.Contains(v.Name, f.Search) || strings.Contains(v.Phone, f.Search) || strings.Contains(v.Email, f.Search)) {
			return false
		}
		return true
	})
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockVisitorRepo) Search(ctx context.Context, q string, limit int) ([]model.Visitor, error) {
	list, _, err := m.List(ctx, repository.VisitorListFilters{Search: q}, 0, limit)
	return list, err
}

func (m *mockVisitorRepo) CountEnteredBetween(_ context.Context, from, to time.Time) (int64, error) {
	return int64(len(m.filter(func(v *model.Visitor) bool { return inRange(v.EntryTime, from, to) }))), nil
}

func (m *mockVisitorRepo) CountByStatus(_ context.Context, status model.VisitorStatus) (int64, error) {
	return int64(len(m.filter(func(v *model.Visitor) bool { return v.Status == status }))), nil
}

func (m *mockVisitorRepo) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.ListActive(ctx)
	return int64(len(list)), nil
}

func (m *mockVisitorRepo) StatusCountsBetween(_ context.Context, from, to time.Time) ([]repository.StatusCount, error) {
	counts := map[string]int64{}
	for _, v := range m.filter(func(v *model.Visitor) bool { return inRange(v.EntryTime, from, to) }) {
		counts[string(v.Status)]++
	}
	return sortedCounts(counts), nil
}

func (m *mockVisitorRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.Visitor, error) {
	return m.filter(func(v *model.Visitor) bool { return inRange(v.EntryTime, from, to) }), nil
}

func (m *mockVisitorRepo) ListRecent(_ context.Context, limit int) ([]model.Visitor, error) {
	return page(m.filter(func(*model.Visitor) bool { return true }), 0, limit), nil
}

// filter 按入校时间倒序返回匹配项
func (m *mockVisitorRepo) filter(keep func(*model.Visitor) bool) []model.Visitor {
	var result []model.Visitor
	for _, v := range m.visitors {
		if keep(v) {
			result = append(result, *v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EntryTime.After(result[j].EntryTime) })
	return result
}

func visitorStatusIn(s model.VisitorStatus, set []model.VisitorStatus) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

// ── Mock VehicleRepository ──

type mockVehicleRepo struct {
	ids     seq
	entries map[string]*model.VehicleEntry
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{entries: make(map[string]*model.VehicleEntry)}
}

func (m *mockVehicleRepo) Create(_ context.Context, e *model.VehicleEntry) error {
	if e.ID == "" {
		e.ID = m.ids.next("vehicle")
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *mockVehicleRepo) GetByID(_ context.Context, id string) (*model.VehicleEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) UpdateIfStatus(_ context.Context, id string, from model.VehicleStatus, updates map[string]interface{}) error {
	e, ok := m.entries[id]
	if !ok || e.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	for k, val := range updates {
		switch k {
		case "status":
			e.Status = val.(model.VehicleStatus)
		case "exit_time":
			t := val.(time.Time)
			e.ExitTime = &t
		default:
			panic("mockVehicleRepo: 未支持的字段 " + k)
		}
	}
	return nil
}

func (m *mockVehicleRepo) ListActive(_ context.Context, vt model.VehicleType) ([]model.VehicleEntry, error) {
	return m.filter(func(e *model.VehicleEntry) bool {
		return e.Status == model.VehicleStatusEntered && (vt == "" || e.VehicleType == vt)
	}), nil
}

func (m *mockVehicleRepo) List(_ context.Context, f repository.VehicleListFilters, offset, limit int) ([]model.VehicleEntry, int64, error) {
	all := m.filter(func(e *model.VehicleEntry) bool {
		if f.VehicleType != "" && e.VehicleType != f.VehicleType {
			return false
		}
		if f.Search != "" && !(strings.Contains(e.BusNumber, f.Search) || strings.Contains(e.DriverName, f.Search)) {
			return false
		}
		return true
	})
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockVehicleRepo) Search(ctx context.Context, q string, limit int) ([]model.VehicleEntry, error) {
	list, _, err := m.List(ctx, repository.VehicleListFilters{Search: q}, 0, limit)
	return list, err
}

func (m *mockVehicleRepo) CountEnteredBetween(_ context.Context, from, to time.Time) (int64, error) {
	return int64(len(m.filter(func(e *model.VehicleEntry) bool { return inRange(e.EntryTime, from, to) }))), nil
}

func (m *mockVehicleRepo) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.ListActive(ctx, "")
	return int64(len(list)), nil
}

func (m *mockVehicleRepo) TypeCountsBetween(_ context.Context, from, to time.Time) ([]repository.StatusCount, error) {
	counts := map[string]int64{}
	for _, e := range m.filter(func(e *model.VehicleEntry) bool { return inRange(e.EntryTime, from, to) }) {
		counts[string(e.VehicleType)]++
	}
	return sortedCounts(counts), nil
}

func (m *mockVehicleRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.VehicleEntry, error) {
	return m.filter(func(e *model.VehicleEntry) bool { return inRange(e.EntryTime, from, to) }), nil
}

func (m *mockVehicleRepo) ListRecent(_ context.Context, limit int) ([]model.VehicleEntry, error) {
	return page(m.filter(func(*model.VehicleEntry) bool { return true }), 0, limit), nil
}

func (m *mockVehicleRepo) filter(keep func(*model.VehicleEntry) bool) []model.VehicleEntry {
	var result []model.VehicleEntry
	for _, e := range m.entries {
		if keep(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EntryTime.After(result[j].EntryTime) })
	return result
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	ids   seq
	items []*model.Notification // 按创建顺序
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = m.ids.next("notif")
	}
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	for _, n := range m.items {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	for _, n := range m.items {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkReadByVisitor(_ context.Context, visitorID string) (int64, error) {
	var affected int64
	for _, n := range m.items {
		if n.VisitorID != nil && *n.VisitorID == visitorID && !n.IsRead {
			n.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func (m *mockNotificationRepo) List(_ context.Context, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for i := len(m.items) - 1; i >= 0; i-- {
		if unreadOnly && m.items[i].IsRead {
			continue
		}
		all = append(all, *m.items[i])
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context) (int64, error) {
	var n int64
	for _, item := range m.items {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

// forVisitor 某访客的全部通知
func (m *mockNotificationRepo) forVisitor(visitorID string) []*model.Notification {
	var result []*model.Notification
	for _, n := range m.items {
		if n.VisitorID != nil && *n.VisitorID == visitorID {
			result = append(result, n)
		}
	}
	return result
}

// ── Mock Cache ──

type mockCache struct {
	data    map[string][]byte
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) GetCache(_ context.Context, key string) ([]byte, error) {
	if b, ok := c.data[key]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("miss")
}

func (c *mockCache) SetCache(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mockCache) DeleteCache(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deletes++
	return nil
}

// ── 通用辅助 ──

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func sortedCounts(counts map[string]int64) []repository.StatusCount {
	result := make([]repository.StatusCount, 0, len(counts))
	for k, v := range counts {
		result = append(result, repository.StatusCount{Key: k, Count: v})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// fixedNow 固定当前时间，返回恢复函数
func fixedNow(t time.Time) func() {
	prev := nowFunc
	nowFunc = func() time.Time { return t }
	return func() { nowFunc = prev }
}

// [自证通过] internal/service/mock_repos_test.go
