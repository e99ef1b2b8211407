package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airport-ops/revenue-reconciler/internal/config"
	"github.com/airport-ops/revenue-reconciler/internal/importer"
	"github.com/airport-ops/revenue-reconciler/internal/store"
	"github.com/airport-ops/revenue-reconciler/internal/store/mocks"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

func writeCSVExport(t *testing.T, dir, name, date string) string {
	t.Helper()
	return writeCSVExportQty(t, dir, name, date, 10)
}

func writeCSVExportQty(t *testing.T, dir, name, date string, qty int) string {
	t.Helper()
	content := "Aerodrom,Datum: " + date + "\n" +
		",,US1035-Check in,,," + strconv.Itoa(qty) + ",," + strconv.Itoa(qty*40) + "\n"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig() *config.Config {
	cfg := &config.Config{ArchiveInputs: new(bool)}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestImportAll_KeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeCSVExport(t, dir, "a.csv", "05.11.2025"),
		filepath.Join(dir, "missing.csv"),
		writeCSVExport(t, dir, "c.csv", "06.11.2025"),
	}

	ctrl := gomock.NewController(t)
	st := mocks.NewMockReportStore(ctrl)
	st.EXPECT().Upsert(gomock.Any(), store.TypeDaily, time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), gomock.Any()).Return(nil)
	st.EXPECT().Upsert(gomock.Any(), store.TypeDaily, time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC), gomock.Any()).Return(nil)

	imp := importer.New(testConfig(), st, nil, nil)
	results := importAll(context.Background(), imp, files, 2, true)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, files[i], r.FilePath)
	}
	assert.True(t, results[0].Success)
	assert.Equal(t, "2025-11-05", results[0].Date)
	assert.False(t, results[1].Success)
	assert.Error(t, results[1].Error)
	assert.True(t, results[2].Success)
}

func TestImportAll_SameDateLastInputWins(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "reports.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var files []string
	for qty := 1; qty <= 4; qty++ {
		files = append(files, writeCSVExportQty(t, dir, "export-"+strconv.Itoa(qty)+".csv", "05.11.2025", qty))
	}
	imp := importer.New(testConfig(), st, nil, nil)
	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)

	for run := 0; run < 10; run++ {
		results := importAll(context.Background(), imp, files, 4, true)

		require.Len(t, results, 4)
		for _, r := range results {
			require.True(t, r.Success, "%s: %v", r.FilePath, r.Error)
		}
		assert.Empty(t, results[0].Warnings)
		assert.Contains(t, results[3].Warnings, "replaces export-3.csv, imported earlier in this run for 2025-11-05")

		stored, err := st.FindByPeriod(context.Background(), store.TypeDaily, day)
		require.NoError(t, err)
		services := stored.Carriers[types.CarrierWizz].Services
		require.Len(t, services, 1)
		assert.Equal(t, 4.0, services[0].Qty, "run %d", run)
	}
}

func TestImportAll_CommitsInInputOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeCSVExportQty(t, dir, "a.csv", "05.11.2025", 1),
		writeCSVExportQty(t, dir, "b.csv", "06.11.2025", 2),
		writeCSVExportQty(t, dir, "c.csv", "05.11.2025", 3),
	}

	ctrl := gomock.NewController(t)
	st := mocks.NewMockReportStore(ctrl)
	nov5 := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	nov6 := time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)
	gomock.InOrder(
		st.EXPECT().Upsert(gomock.Any(), store.TypeDaily, nov5, gomock.Any()).Return(nil),
		st.EXPECT().Upsert(gomock.Any(), store.TypeDaily, nov6, gomock.Any()).Return(nil),
		st.EXPECT().Upsert(gomock.Any(), store.TypeDaily, nov5, gomock.Any()).Return(nil),
	)

	results := importAll(context.Background(), importer.New(testConfig(), st, nil, nil), files, 3, true)
	for _, r := range results {
		assert.True(t, r.Success)
	}
	assert.Len(t, results[2].Warnings, 1)
}

func TestImportAll_FailureStopsLaterCommits(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeCSVExport(t, dir, "a.csv", "05.11.2025"),
		filepath.Join(dir, "missing.csv"),
		writeCSVExport(t, dir, "c.csv", "06.11.2025"),
	}

	ctrl := gomock.NewController(t)
	st := mocks.NewMockReportStore(ctrl)
	st.EXPECT().Upsert(gomock.Any(), store.TypeDaily, time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), gomock.Any()).Return(nil)

	results := importAll(context.Background(), importer.New(testConfig(), st, nil, nil), files, 3, false)

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotErrorIs(t, results[1].Error, context.Canceled)
	assert.ErrorIs(t, results[2].Error, context.Canceled)
}

func TestImportAll_StopsOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "missing-1.csv"),
		filepath.Join(dir, "missing-2.csv"),
		filepath.Join(dir, "missing-3.csv"),
	}

	ctrl := gomock.NewController(t)
	st := mocks.NewMockReportStore(ctrl)

	imp := importer.New(testConfig(), st, nil, nil)
	results := importAll(context.Background(), imp, files, 1, false)

	require.Len(t, results, 3)
	skipped := 0
	for _, r := range results {
		assert.False(t, r.Success)
		if strings.HasPrefix(r.Error.Error(), "skipped") {
			skipped++
		}
	}
	assert.GreaterOrEqual(t, skipped, 1)
}

func TestImportAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := gomock.NewController(t)
	imp := importer.New(testConfig(), mocks.NewMockReportStore(ctrl), nil, nil)

	results := importAll(ctx, imp, []string{"a.csv", "b.csv"}, 0, true)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}
