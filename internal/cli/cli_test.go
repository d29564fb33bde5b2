package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/dirmap/internal/cache"
	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/config"
	"github.com/lumipallolabs/dirmap/internal/model"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-01")
	defer SetVersion("dev", "", "")

	if version != "1.2.3" || commit != "abc123" || date != "2026-01-01" {
		t.Errorf("got %q/%q/%q, want 1.2.3/abc123/2026-01-01", version, commit, date)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.logFunc(newLogger(&buf, tc.level))
			if got := buf.Len() > 0; got != tc.wantLog {
				t.Errorf("wrote output = %v, want %v", got, tc.wantLog)
			}
		})
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	logger := newLogger(io.Discard, log.InfoLevel)
	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the installed logger")
	}
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext must never return nil")
	}
}

func TestArgPath(t *testing.T) {
	if got := argPath(nil); got != "." {
		t.Errorf("argPath(nil) = %q, want .", got)
	}
	if got := argPath([]string{"/data"}); got != "/data" {
		t.Errorf("argPath = %q, want /data", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "")
	if err := cmd.Flags().Set("config", "/nonexistent/dirmap/config.toml"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Resolution != config.DefaultResolution || !cfg.Cache {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestExportCmdFlags(t *testing.T) {
	cmd := newExportCmd()
	for _, name := range []string{"output", "format", "width", "height", "depth", "min-size", "workers"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("export command is missing --%s", name)
		}
	}
}

func TestExportCmdRejectsUnknownFormat(t *testing.T) {
	cmd := newExportCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--format", "png"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("err = %v, want invalid format", err)
	}
}

func buildCLITree(t *testing.T) *model.Node {
	t.Helper()
	root, err := model.Build("data", []model.Record{
		{Path: "media", IsDir: true},
		{Path: "media/movie.mp4", Size: 6000},
		{Path: "notes.txt", Size: 1000},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	category.Annotate(root)
	return root
}

func TestWriteExportSVG(t *testing.T) {
	root := buildCLITree(t)
	opts := &exportOpts{format: formatSVG, width: 300, height: 200}

	var buf bytes.Buffer
	if err := writeExport(&buf, root, opts, config.Default()); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("svg export is not a complete svg document")
	}
	if !strings.Contains(out, "movie.mp4") {
		t.Error("svg export should mention the scanned files")
	}
}

func TestWriteExportJSON(t *testing.T) {
	root := buildCLITree(t)
	opts := &exportOpts{format: formatJSON}

	var buf bytes.Buffer
	if err := writeExport(&buf, root, opts, config.Default()); err != nil {
		t.Fatalf("writeExport: %v", err)
	}

	var got struct {
		Name     string `json:"name"`
		Total    int64  `json:"total"`
		Children []struct {
			Name string `json:"name"`
		} `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != "data" || got.Total != 7000 || len(got.Children) != 2 {
		t.Errorf("unexpected export: %+v", got)
	}
}

func TestPrintChanges(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	changes := []cache.Change{
		{Path: "logs/app.log", Kind: cache.Grown, Before: 1000, After: 9000},
		{Path: "tmp/build", Kind: cache.Added, After: 5000},
		{Path: "old.iso", Kind: cache.Removed, Before: 3000},
		{Path: "pkg", Kind: cache.Shrunk, Before: 4000, After: 2000},
	}

	var buf bytes.Buffer
	printChanges(&buf, changes, at, at.Add(time.Hour), 0)
	out := buf.String()

	if !strings.Contains(out, "1 added, 1 removed, 1 grown, 1 shrunk") {
		t.Errorf("missing summary line in:\n%s", out)
	}
	if !strings.Contains(out, "logs/app.log") || !strings.Contains(out, "+7.8KB") {
		t.Errorf("missing grown entry in:\n%s", out)
	}

	buf.Reset()
	printChanges(&buf, changes, at, at.Add(time.Hour), 2)
	out = buf.String()
	if !strings.Contains(out, "… and 2 more") {
		t.Errorf("top capping missing in:\n%s", out)
	}
	if strings.Contains(out, "old.iso") {
		t.Errorf("capped output should not list old.iso:\n%s", out)
	}
}

func TestPrintChangesEmpty(t *testing.T) {
	var buf bytes.Buffer
	printChanges(&buf, nil, time.Time{}, time.Now(), 0)
	if !strings.Contains(buf.String(), "No changes.") {
		t.Errorf("empty diff output = %q", buf.String())
	}
}

func TestDisplayPath(t *testing.T) {
	if got := displayPath(""); got != "." {
		t.Errorf("displayPath(\"\") = %q, want .", got)
	}
	if got := displayPath("a/b"); got != "a/b" {
		t.Errorf("displayPath(a/b) = %q", got)
	}
}
