package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/harborguide/internal/app"
	"github.com/alexanderramin/harborguide/internal/config"
	"github.com/alexanderramin/harborguide/internal/intelligence"
	"github.com/alexanderramin/harborguide/internal/testutil"
	"github.com/alexanderramin/harborguide/internal/window"
)

const portCallsCSV = "Vessel,BU,ATB (Local Time),AA_YN,Arrival Variance (h),Berth Time (h),Carbon Abatement (t)\n" +
	"MV A,APMT,2025-10-14 08:30:00,Y,2,30,5\n" +
	"MV B,APMT,2025-10-15 11:00:00,N,-6,40,3\n"

// workspace switches into a temp dir holding a harborguide.yaml that points
// at a file database and, optionally, a workbook.
func workspace(t *testing.T, workbook string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HARBOR_LLM_ENABLED", "false")

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := "data:\n  db_path: " + filepath.Join(dir, "harbor.db") + "\n"
	cfg += "  workbook_path: \"" + workbook + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "harborguide.yaml"), []byte(cfg), 0o644))
	return dir
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	st := &state{build: app.Build}
	root := newRootCmd(st)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.ExecuteContext(context.Background())
	require.NoError(t, st.close())
	return out.String(), errOut.String(), err
}

func TestCardsCmd_Files(t *testing.T) {
	dir := workspace(t, "")
	csvPath := filepath.Join(dir, "berths.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Berth,Hours\nB1,30\nB2,42\n"), 0o644))

	out, errOut, err := runCLI(t, "cards", csvPath, "--max-chars", "1000")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "=== Sheet: berths ==="), out)
	assert.Contains(t, errOut, "1 of 1 block included")
}

func TestCardsCmd_BudgetTooSmall(t *testing.T) {
	dir := workspace(t, "")
	csvPath := filepath.Join(dir, "berths.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Berth,Hours\nB1,30\n"), 0o644))

	out, errOut, err := runCLI(t, "cards", csvPath, "--max-chars", "5")
	require.NoError(t, err)
	assert.Equal(t, "(no data available)\n", out)
	assert.Contains(t, errOut, "0 of 1 block included (truncated)")
}

func TestCardsCmd_FromConfiguredWorkbook(t *testing.T) {
	path := testutil.WriteWorkbook(t, "ops.xlsx", testutil.Sheet{Name: "Calls", Rows: [][]any{
		{"Vessel", "Berth (h)"},
		{"MV A", 30},
	}})
	workspace(t, path)

	out, _, err := runCLI(t, "cards")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Sheet: Calls ===")
}

func TestCardsCmd_UnsupportedFile(t *testing.T) {
	workspace(t, "")
	_, _, err := runCLI(t, "cards", "notes.txt")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestFactsImportThenKPIs(t *testing.T) {
	dir := workspace(t, "")
	csvPath := filepath.Join(dir, "calls.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(portCallsCSV), 0o644))

	out, _, err := runCLI(t, "facts", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 port calls.")

	out, _, err = runCLI(t, "kpis", "--json")
	require.NoError(t, err)
	var payload struct {
		AsOf string `json:"asOf"`
		KPIs map[string]struct {
			Value *float64 `json:"value"`
		} `json:"kpis"`
		TopVessels []struct {
			Vessel string `json:"vessel"`
		} `json:"topVessels"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "2025-10-15", payload.AsOf)
	require.NotNil(t, payload.KPIs["avg_berth_h"].Value)
	assert.Equal(t, 35.0, *payload.KPIs["avg_berth_h"].Value)
	require.Len(t, payload.TopVessels, 2)
	assert.Equal(t, "MV B", payload.TopVessels[0].Vessel)

	out, _, err = runCLI(t, "kpis")
	require.NoError(t, err)
	assert.Contains(t, out, "PORT KPIS")
	assert.Contains(t, out, "Avg berth time")

	out, _, err = runCLI(t, "kpis", "--json", "--window", "mtd")
	require.NoError(t, err)
	payload.KPIs = nil
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Len(t, payload.KPIs, 1)
	assert.Contains(t, payload.KPIs, "carbon_tonnes")

	_, _, err = runCLI(t, "kpis", "--window", "yearly")
	assert.ErrorContains(t, err, "unknown window kind")
}

func TestFactsImport_InvalidFileStoresNothing(t *testing.T) {
	dir := workspace(t, "")
	csvPath := filepath.Join(dir, "calls.csv")
	bad := portCallsCSV + "MV C,APMT,not-a-date,Y,1,20,1\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(bad), 0o644))

	_, _, err := runCLI(t, "facts", "import", csvPath)
	require.Error(t, err)

	out, _, err := runCLI(t, "kpis")
	require.NoError(t, err)
	assert.Contains(t, out, "No port calls loaded")
}

func TestAskCmd_Stub(t *testing.T) {
	workspace(t, "")
	out, _, err := runCLI(t, "ask", "--mode", "stub", "how", "are", "arrivals?")
	require.NoError(t, err)
	assert.Contains(t, out, "### Executive Summary")
	assert.Contains(t, out, "[DETERMINISTIC] mode: stub")
}

func TestAskCmd_CardsWithoutModel(t *testing.T) {
	path := testutil.WriteWorkbook(t, "ops.xlsx", testutil.Sheet{Name: "Calls", Rows: [][]any{
		{"Vessel", "Berth (h)"},
		{"MV A", 30},
	}})
	workspace(t, path)

	out, _, err := runCLI(t, "ask", "--mode", "cards", "what is loaded?")
	require.NoError(t, err)
	assert.Contains(t, out, "Data overview (model unavailable)")
	assert.Contains(t, out, "Sheet: Calls")
}

func TestAskCmd_BadMode(t *testing.T) {
	workspace(t, "")
	_, _, err := runCLI(t, "ask", "--mode", "psychic", "hello")
	assert.ErrorContains(t, err, "unknown ask mode")
}

func TestAskCmd_EmptyQuestion(t *testing.T) {
	workspace(t, "")
	_, _, err := runCLI(t, "ask", "   ")
	assert.ErrorIs(t, err, intelligence.ErrEmptyQuestion)
}

func TestRoot_MissingConfigFile(t *testing.T) {
	workspace(t, "")
	_, _, err := runCLI(t, "--config", "elsewhere.yaml", "kpis")
	assert.Error(t, err)
}

func TestRoot_HelpDoesNotBuildApp(t *testing.T) {
	called := false
	st := &state{build: func(ctx context.Context, _ *config.Config, _ *slog.Logger) (*app.App, error) {
		called = true
		return nil, nil
	}}
	root := newRootCmd(st)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.False(t, called)
	assert.Contains(t, out.String(), "serve")
	assert.Contains(t, out.String(), "facts")
}

func TestWindowFlag(t *testing.T) {
	var w windowFlag
	require.NoError(t, w.Set(" wow "))
	assert.Equal(t, "WoW", w.String())
	assert.Equal(t, "window", w.Type())
	assert.ErrorIs(t, w.Set("QoQ"), window.ErrUnknownKind)
}

func TestModeFlag(t *testing.T) {
	var m modeFlag
	require.NoError(t, m.Set(" KPIs "))
	assert.Equal(t, "kpis", m.String())
	assert.Equal(t, "mode", m.Type())
	assert.Error(t, m.Set("nope"))
}
