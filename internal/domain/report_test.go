package domain

import "testing"

func TestImportReportOK(t *testing.T) {
	r := ImportReport{Processed: 2, Succeeded: []AssetRef{"/Game/A.A", "/Game/B.B"}}
	if !r.OK() {
		t.Fatalf("expected OK with no failures")
	}

	r.Failed = append(r.Failed, SourceFailure{Source: "/Game/C.C", Error: "boom"})
	if r.OK() {
		t.Fatalf("expected not OK with failures")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Repository.EnvVar != "UE_VUL_DATA_REPO" {
		t.Errorf("unexpected env var %q", cfg.Repository.EnvVar)
	}
	if cfg.Repository.Class != ClassDataRepository {
		t.Errorf("unexpected class %q", cfg.Repository.Class)
	}
	if cfg.Content.Mount != DefaultMount {
		t.Errorf("unexpected mount %q", cfg.Content.Mount)
	}
	if len(cfg.Importer.Command) != 0 {
		t.Errorf("expected no default importer command")
	}
}
