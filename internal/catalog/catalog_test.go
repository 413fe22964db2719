package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeCatalog(t, `
plans:
  - id: plan-basic
    name: Basic
    quota_bytes: 1073741824
    price: "5000"
    term_days: 365
  - id: plan-monthly
    name: Monthly
    quota_bytes: 1073741824
    price: "600.50"
    term_days: 30
`)

	plans, err := Load(path)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, "plan-basic", plans[0].ID)
	assert.Equal(t, int64(1<<30), plans[0].QuotaBytes)
	assert.Equal(t, 365, plans[0].TermDays)
	assert.Equal(t, "600.5", plans[1].Price.String())
}

func TestLoad_Empty(t *testing.T) {
	path := writeCatalog(t, `plans: []`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plans")
}

func TestLoad_BadPrice(t *testing.T) {
	path := writeCatalog(t, `
plans:
  - id: plan-basic
    name: Basic
    quota_bytes: 100
    price: "free"
    term_days: 30
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestLoad_BadQuota(t *testing.T) {
	path := writeCatalog(t, `
plans:
  - id: plan-basic
    name: Basic
    quota_bytes: 0
    price: "100"
    term_days: 30
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota_bytes")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
