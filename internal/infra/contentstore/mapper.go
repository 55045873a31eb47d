package contentstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aalvaropc/vulimport/internal/domain"
)

// MapAsset turns a parsed manifest into a domain asset, validating the references it holds.
func MapAsset(ref domain.AssetRef, file string, mount string, ya YAMLAsset) (domain.Asset, error) {
	class := domain.AssetClass(strings.TrimSpace(ya.Class))
	if class == "" {
		class = domain.ClassUnknown
	}

	asset := domain.Asset{
		Ref:   ref,
		Class: class,
		File:  file,
	}

	switch class {
	case domain.ClassDataRepository:
		asset.DataTables = make(map[string]domain.AssetRef, len(ya.DataTables))
		for _, name := range sortedKeys(ya.DataTables) {
			t, err := domain.ValidateRef(ya.DataTables[name], mount)
			if err != nil {
				return domain.Asset{}, invalidField(file, "data_tables."+name, fmt.Sprintf("%q is not an asset path", ya.DataTables[name]))
			}
			asset.DataTables[name] = t
		}

	case domain.ClassDataTableSource:
		if strings.TrimSpace(ya.DataTable) == "" {
			return domain.Asset{}, invalidField(file, "data_table", "data table is required")
		}
		t, err := domain.ValidateRef(ya.DataTable, mount)
		if err != nil {
			return domain.Asset{}, invalidField(file, "data_table", fmt.Sprintf("%q is not an asset path", ya.DataTable))
		}
		if len(ya.FilePatterns) == 0 {
			return domain.Asset{}, invalidField(file, "file_patterns", "at least one pattern is required")
		}
		asset.Source = domain.DataSourceSpec{
			DataTable:    t,
			Directory:    strings.TrimSpace(ya.Directory),
			FilePatterns: append([]string(nil), ya.FilePatterns...),
			TopLevelKey:  strings.TrimSpace(ya.TopLevelKey),
		}
	}

	return asset, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "contentstore.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
