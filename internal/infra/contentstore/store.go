package contentstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/ports"
	"gopkg.in/yaml.v3"
)

const manifestExt = ".yaml"

// Store resolves asset references to YAML manifests under a content directory.
// "/Game/Data/Repo.Repo" maps to "<root>/Data/Repo.yaml".
type Store struct {
	root  string
	mount string
}

type Option func(*Store)

// WithMount sets the namespace the content directory is mounted at (default "/Game/").
func WithMount(mount string) Option {
	return func(s *Store) {
		if strings.TrimSpace(mount) != "" {
			s.mount = mount
		}
	}
}

func New(root string, opts ...Option) *Store {
	s := &Store{
		root:  filepath.Clean(root),
		mount: domain.DefaultMount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ ports.AssetLoader  = (*Store)(nil)
	_ ports.AssetCatalog = (*Store)(nil)
)

func (s *Store) LoadAsset(ctx context.Context, ref domain.AssetRef) (domain.Asset, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Asset{}, false, err
	}

	file, ok, err := s.manifestPath(ref.Package())
	if err != nil {
		return domain.Asset{}, false, err
	}
	if !ok {
		return domain.Asset{}, false, nil
	}

	// The primary object of a package shares its name.
	if ref.Object() != path.Base(ref.Package()) {
		return domain.Asset{}, false, nil
	}

	b, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Asset{}, false, nil
		}
		return domain.Asset{}, false, &domain.OpError{
			Op:   "contentstore.load",
			Kind: domain.KindExecution,
			Path: file,
			Err:  err,
		}
	}

	var dto YAMLAsset
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Asset{}, false, &domain.OpError{
			Op:   "contentstore.load",
			Kind: domain.KindInvalidConfig,
			Path: file,
			Err:  err,
		}
	}

	asset, err := MapAsset(ref, file, s.mount, dto)
	if err != nil {
		return domain.Asset{}, false, err
	}
	return asset, true, nil
}

// ListAssets returns every asset under dir, recursively, in lexical order.
// Manifests that fail to parse are skipped.
func (s *Store) ListAssets(ctx context.Context, dir string) ([]domain.Asset, error) {
	base, err := s.manifestDir(dir)
	if err != nil {
		return nil, err
	}

	var out []domain.Asset
	walkErr := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == base && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() || filepath.Ext(p) != manifestExt {
			return nil
		}

		ref, rerr := s.refFor(p)
		if rerr != nil {
			return nil
		}

		asset, found, lerr := s.LoadAsset(ctx, ref)
		if lerr != nil {
			if domain.IsKind(lerr, domain.KindInvalidConfig) {
				return nil
			}
			return lerr
		}
		if found {
			out = append(out, asset)
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		var oe *domain.OpError
		if errors.As(walkErr, &oe) {
			return nil, walkErr
		}
		return nil, &domain.OpError{
			Op:   "contentstore.list",
			Kind: domain.KindExecution,
			Path: base,
			Err:  walkErr,
		}
	}
	return out, nil
}

// manifestPath maps a package path to its manifest file, refusing paths that
// escape the content root. Directories, the mount root included, name no
// package and report ok=false.
func (s *Store) manifestPath(pkg string) (file string, ok bool, err error) {
	rel, err := s.relative(pkg)
	if err != nil {
		return "", false, err
	}
	if rel == "" || strings.HasSuffix(pkg, "/") {
		return "", false, nil
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)) + manifestExt, true, nil
}

func (s *Store) manifestDir(dir string) (string, error) {
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	rel, err := s.relative(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

func (s *Store) relative(p string) (string, error) {
	if !strings.HasPrefix(p, s.mount) {
		return "", &domain.OpError{
			Op:   "contentstore.resolve",
			Kind: domain.KindInvalidConfig,
			Path: p,
			Err:  domain.ErrInvalidRef,
		}
	}
	rel := path.Clean("/" + strings.TrimPrefix(p, s.mount))
	if rel != "/"+strings.Trim(strings.TrimPrefix(p, s.mount), "/") {
		return "", &domain.OpError{
			Op:   "contentstore.resolve",
			Kind: domain.KindInvalidConfig,
			Path: p,
			Err:  errors.New("path must not contain relative segments"),
		}
	}
	return strings.TrimPrefix(rel, "/"), nil
}

func (s *Store) refFor(file string) (domain.AssetRef, error) {
	rel, err := filepath.Rel(s.root, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	name := path.Base(rel)
	return domain.AssetRef(s.mount + rel + "." + name), nil
}
