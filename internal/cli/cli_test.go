package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/ports"
)

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"import", "validate", "assets", "init", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
	for _, flag := range []string{"workspace", "debug", "no-color"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
}

func TestImportCmd_Flags(t *testing.T) {
	cmd := importCmd(&app{})
	if cmd.Use != "import" {
		t.Errorf("expected Use=import, got %q", cmd.Use)
	}
	for _, flag := range []string{"repo", "no-save", "format"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on import command", flag)
		}
	}
}

func TestValidateCmd_Flags(t *testing.T) {
	cmd := validateCmd(&app{})
	if cmd.Flags().Lookup("repo") == nil {
		t.Error("expected --repo flag on validate command")
	}
}

func TestAssetsCmd_HasListSubcommand(t *testing.T) {
	found := false
	for _, sub := range assetsCmd(&app{}).Commands() {
		if sub.Name() == "list" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'list' subcommand under assets")
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	if cmd.Flags().Lookup("path") == nil {
		t.Error("expected --path flag on init command")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag on init command")
	}
}

func TestVersionCmd_PrintsBuildInfo(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)
	if !strings.HasPrefix(out.String(), "vulimport ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

// --- resolveReference ---

func refCmd(t *testing.T, args ...string) (*cobra.Command, *string) {
	t.Helper()
	var repo string
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().StringVar(&repo, "repo", "", "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd, &repo
}

func TestResolveReference(t *testing.T) {
	cfg := domain.DefaultConfig()
	env := map[string]string{"UE_VUL_DATA_REPO": "/Game/FromEnv.FromEnv"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	unset := func(string) (string, bool) { return "", false }

	cmd, repo := refCmd(t)
	if got := resolveReference(cmd, *repo, cfg, lookup); got != "/Game/FromEnv.FromEnv" {
		t.Errorf("expected env value, got %q", got)
	}

	cmd, repo = refCmd(t, "--repo", "/Game/Flag.Flag")
	if got := resolveReference(cmd, *repo, cfg, lookup); got != "/Game/Flag.Flag" {
		t.Errorf("expected flag value, got %q", got)
	}

	cmd, repo = refCmd(t, "--repo", "")
	if got := resolveReference(cmd, *repo, cfg, lookup); got != "" {
		t.Errorf("expected explicit empty flag to win, got %q", got)
	}

	cmd, repo = refCmd(t)
	if got := resolveReference(cmd, *repo, cfg, unset); got != "" {
		t.Errorf("expected empty reference for unset env, got %q", got)
	}

	cfg.Repository.EnvVar = "OTHER"
	env["OTHER"] = "/Game/Other.Other"
	if got := resolveReference(nil, "", cfg, lookup); got != "/Game/Other.Other" {
		t.Errorf("expected configured env var to be used, got %q", got)
	}
}

func TestExplainRefError(t *testing.T) {
	cfg := domain.DefaultConfig()
	_, refErr := domain.ValidateRef("", cfg.Content.Mount)

	cmd, _ := refCmd(t)
	err := explainRefError(cmd, cfg, refErr)
	if !strings.Contains(err.Error(), "UE_VUL_DATA_REPO") {
		t.Errorf("expected env var in message, got %v", err)
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Errorf("expected kind preserved, got %v", err)
	}

	cmd, _ = refCmd(t, "--repo", "/x")
	if err := explainRefError(cmd, cfg, refErr); !strings.Contains(err.Error(), "--repo") {
		t.Errorf("expected flag in message, got %v", err)
	}

	other := errors.New("other")
	if err := explainRefError(cmd, cfg, other); err != other {
		t.Errorf("expected unrelated errors untouched, got %v", err)
	}
}

// --- printReport ---

func sampleReport() domain.ImportReport {
	return domain.ImportReport{
		Repository: "/Game/Data/DTR_GameData.DTR_GameData",
		Processed:  2,
		Succeeded:  []domain.AssetRef{"/Game/Data/SRC_Weapons.SRC_Weapons"},
		Failed: []domain.SourceFailure{
			{Source: "/Game/Data/SRC_Characters.SRC_Characters", Error: "row 3: unknown field"},
		},
	}
}

func TestPrintReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, sampleReport(), "run-1", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload["run_id"] != "run-1" {
		t.Errorf("expected run_id=run-1, got %v", payload["run_id"])
	}
	report, ok := payload["report"].(map[string]any)
	if !ok {
		t.Fatalf("expected report object, got %v", payload["report"])
	}
	if report["processed"] != float64(2) {
		t.Errorf("expected processed=2, got %v", report["processed"])
	}
}

func TestPrintReport_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, sampleReport(), "run-42", "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"/Game/Data/DTR_GameData.DTR_GameData",
		"2 processed, 1 ok, 1 failed",
		"run-42",
		"OK",
		"FAIL",
		"row 3: unknown field",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintReport_EmptyIsPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, domain.ImportReport{}, "", ""); err != nil {
		t.Fatalf("empty format should behave like pretty, got error: %v", err)
	}
	if !strings.Contains(buf.String(), "no connected data sources") {
		t.Errorf("expected empty-report hint, got:\n%s", buf.String())
	}
}

func TestPrintReport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf, domain.ImportReport{}, "", "xml")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected error mentioning format, got %v", err)
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

func TestLoadWorkspace_MissingContentRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "vul.yaml"), []byte("vul: {}\n"), 0o644); err != nil {
		t.Fatalf("write vul.yaml: %v", err)
	}

	_, err := loadWorkspace(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestDeferredImporter_BuildError(t *testing.T) {
	buildErr := errors.New("no command")
	d := deferredImporter{build: func() (ports.DataSourceImporter, error) { return nil, buildErr }}

	report, err := d.ImportConnectedDataSources(context.Background(), domain.Asset{Ref: "/Game/R.R"})
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}
	if report.Repository != "/Game/R.R" || report.Processed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestLoadWorkspace_MissingConfig(t *testing.T) {
	_, err := loadWorkspace(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
