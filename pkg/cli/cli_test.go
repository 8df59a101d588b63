package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/cli/config"
	server "github.com/secmon-lab/qaboard/pkg/controller/http"
	"github.com/secmon-lab/qaboard/pkg/dashboard"
	"github.com/secmon-lab/qaboard/pkg/repository/memory"
	"github.com/secmon-lab/qaboard/pkg/service/api"
	"github.com/secmon-lab/qaboard/pkg/service/chart"
	"github.com/secmon-lab/qaboard/pkg/usecase"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

// newSeededServer serves the built-in catalog from memory
func newSeededServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	data, err := config.ParseCatalog(defaultCatalogForTest(t))
	gt.NoError(t, err).Required()

	uc := usecase.New(memory.New(), usecase.WithMetricDefinitions(data.Definitions))
	gt.NoError(t, uc.Seed(ctx, data.Dataset)).Required()

	ts := httptest.NewServer(server.New(uc))
	t.Cleanup(ts.Close)
	return ts
}

func defaultCatalogForTest(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("config", "default_catalog.toml"))
	gt.NoError(t, err).Required()
	return raw
}

func TestPrintDashboard(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	ts := newSeededServer(t)

	client, err := api.New(ts.URL)
	gt.NoError(t, err).Required()
	ctrl := dashboard.New(client, dashboard.WithRenderer(chart.NewText()))
	gt.NoError(t, ctrl.Load(ctx)).Required()
	defer func() { _ = ctrl.Close(ctx) }()

	var buf bytes.Buffer
	gt.NoError(t, printDashboard(ctx, &buf, ctrl, "test_coverage")).Required()

	out := buf.String()
	gt.String(t, out).Contains("KPI Status")
	// 82 against 80, higher is better
	gt.String(t, out).Contains("test_coverage        Latest: 82       Target: 80       GREEN")
	// 3.1 against 3.0, lower is better
	gt.String(t, out).Contains("defect_density       Latest: 3.1      Target: 3        RED")
	gt.String(t, out).Contains("KPI Trend: test_coverage")
	gt.String(t, out).Contains("Risk Matrix")
	gt.String(t, out).Contains("R0")
	gt.String(t, out).Contains("Late requirement changes")
}

func TestChartCommand(t *testing.T) {
	ts := newSeededServer(t)
	output := filepath.Join(t.TempDir(), "coverage.png")

	err := Run(context.Background(), []string{
		"qaboard", "--log-level", "error",
		"chart", "--api-url", ts.URL, "--metric", "test_coverage", "--output", output,
	}, "test")
	gt.NoError(t, err).Required()

	raw, err := os.ReadFile(output)
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw[1:4])).Equal("PNG")
}

func TestChartCommandUnknownMetric(t *testing.T) {
	ts := newSeededServer(t)

	err := Run(context.Background(), []string{
		"qaboard", "--log-level", "error",
		"chart", "--api-url", ts.URL, "--metric", "build_time",
		"--output", filepath.Join(t.TempDir(), "x.png"),
	}, "test")
	gt.Value(t, err != nil).Equal(true)
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	gt.NoError(t, os.WriteFile(path, []byte("[[metric]]\nname = \"mttd\"\ndirection = \"sideways\"\n"), 0o600)).Required()

	err := Run(context.Background(), []string{"qaboard", "--log-level", "error", "validate", "--catalog", path}, "test")
	gt.Error(t, err).Is(config.ErrInvalidCatalog)

	err = Run(context.Background(), []string{"qaboard", "--log-level", "error", "validate"}, "test")
	gt.NoError(t, err)
}

func TestRunLogsStartupConfig(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	logPath := filepath.Join(t.TempDir(), "qaboard.log")
	err := Run(context.Background(), []string{
		"qaboard", "--log-level", "debug", "--log-format", "json", "--log-output", logPath, "validate",
	}, "v1.2.3")
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(logPath)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains(`"msg":"qaboard configured"`)
	gt.String(t, string(data)).Contains(`"version":"v1.2.3"`)
	gt.String(t, string(data)).Contains(`"command":"validate"`)
}
