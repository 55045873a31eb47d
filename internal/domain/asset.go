package domain

import (
	"errors"
	"path"
	"strings"
)

// DefaultMount is the namespace marker every importable asset path starts with.
const DefaultMount = "/Game/"

// ErrInvalidRef is returned for references that are empty or outside the mount.
var ErrInvalidRef = errors.New("env reference is not a valid asset path")

// AssetRef is an in-engine object path such as "/Game/Data/DTR_GameData.DTR_GameData".
type AssetRef string

func (r AssetRef) String() string { return string(r) }

// Package returns the package part of the reference, without the ".Object" suffix.
func (r AssetRef) Package() string {
	s := string(r)
	slash := strings.LastIndex(s, "/")
	if dot := strings.LastIndex(s, "."); dot > slash {
		return s[:dot]
	}
	return s
}

// Object returns the object name. A reference without an explicit object names
// the package's primary object.
func (r AssetRef) Object() string {
	s := string(r)
	slash := strings.LastIndex(s, "/")
	if dot := strings.LastIndex(s, "."); dot > slash {
		return s[dot+1:]
	}
	return path.Base(s)
}

// Dir returns the directory holding the package, e.g. "/Game/Data".
func (r AssetRef) Dir() string {
	return path.Dir(r.Package())
}

// ValidateRef checks the structural shape of a reference: non-empty and inside mount.
// No other validation is performed.
func ValidateRef(ref string, mount string) (AssetRef, error) {
	if mount == "" {
		mount = DefaultMount
	}
	if ref == "" || !strings.HasPrefix(ref, mount) {
		return "", &OpError{
			Op:   "asset.validate",
			Kind: KindInvalidConfig,
			Path: ref,
			Err:  ErrInvalidRef,
		}
	}
	return AssetRef(ref), nil
}

// AssetClass is the explicit type tag carried by every resolved asset.
type AssetClass string

const (
	ClassUnknown         AssetClass = "Unknown"
	ClassDataRepository  AssetClass = "VulDataRepository"
	ClassDataTableSource AssetClass = "VulDataTableSource"
	ClassDataTable       AssetClass = "DataTable"
)

// Asset is a resolved handle. Which fields are populated depends on Class.
type Asset struct {
	Ref   AssetRef
	Class AssetClass
	File  string // backing manifest, when the store is file based

	// DataTables maps a row struct name to the data table asset (VulDataRepository).
	DataTables map[string]AssetRef

	// Source describes where a VulDataTableSource reads its rows from.
	Source DataSourceSpec
}

// Is reports whether the asset carries exactly the given class tag.
func (a Asset) Is(class AssetClass) bool {
	return a.Class == class
}

// ConnectsTo reports whether a data table source feeds one of the repository's tables.
func (a Asset) ConnectsTo(repo Asset) bool {
	if !a.Is(ClassDataTableSource) || a.Source.DataTable == "" {
		return false
	}
	for _, t := range repo.DataTables {
		if t == a.Source.DataTable {
			return true
		}
	}
	return false
}

// DataSourceSpec is the import configuration of a VulDataTableSource.
type DataSourceSpec struct {
	DataTable    AssetRef
	Directory    string
	FilePatterns []string
	TopLevelKey  string
}
