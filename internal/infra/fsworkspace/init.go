package fsworkspace

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/vulimport/internal/domain"
)

const gitignoreHeader = "# vulimport"

// Initializer scaffolds a workspace laid out for the default configuration:
// vul.yaml, a content root holding one repository, data table and source, the
// source's data files, the runs directory and .gitignore entries for generated output.
type Initializer struct {
	cfg domain.Config
}

func NewInitializer() *Initializer {
	return &Initializer{cfg: domain.DefaultConfig()}
}

func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	for _, d := range i.layout(root) {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return initError(d, err)
		}
	}

	if err := ensureGitignore(root, i.ignored()); err != nil {
		return initError(filepath.Join(root, ".gitignore"), err)
	}

	return i.writeTemplates(root, force)
}

// layout lists the directories every workspace has, even before any asset exists.
func (i *Initializer) layout(root string) []string {
	return []string{
		filepath.Join(root, i.cfg.Content.Root),
		filepath.Join(root, i.cfg.Paths.RunsDir),
		filepath.Join(root, ".vul", "logs"),
	}
}

// ignored lists the generated paths: saved runs and the log directory.
func (i *Initializer) ignored() []string {
	return []string{
		strings.Trim(filepath.ToSlash(i.cfg.Paths.RunsDir), "/") + "/",
		".vul/",
	}
}

// writeTemplates copies the embedded sample files. Existing files are kept
// unless force is set, so re-running init never clobbers edited manifests.
func (i *Initializer) writeTemplates(root string, force bool) error {
	return fs.WalkDir(templatesFS, templatesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel := strings.TrimPrefix(p, templatesDir+"/")
		dst := filepath.Join(root, filepath.FromSlash(rel))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return initError(p, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return initError(filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return initError(dst, err)
		}
		return nil
	})
}

func initError(p string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindExecution,
		Path: p,
		Err:  err,
	}
}

// ensureGitignore appends the entries a .gitignore lacks, under a single
// "# vulimport" header. Entries already present anywhere in the file are left alone.
func ensureGitignore(root string, entries []string) error {
	p := filepath.Join(root, ".gitignore")

	existing, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	have := map[string]bool{}
	for _, line := range strings.Split(string(existing), "\n") {
		have[strings.TrimSpace(line)] = true
	}

	var block []string
	for _, e := range entries {
		if !have[e] && !have[path.Clean("/"+e)+"/"] {
			block = append(block, e)
		}
	}
	if len(block) == 0 {
		return nil
	}
	if !have[gitignoreHeader] {
		block = append([]string{gitignoreHeader}, block...)
	}

	out := string(existing)
	if out != "" {
		out = strings.TrimRight(out, "\n") + "\n\n"
	}
	out += strings.Join(block, "\n") + "\n"

	return os.WriteFile(p, []byte(out), 0o644)
}
