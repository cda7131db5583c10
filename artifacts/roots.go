package artifacts

import (
	"path/filepath"

	"github.com/zeptools/jewel-docs/document"
)

const (
	AppDir      = "KAPIL_SONI_APP"
	InvoicesDir = "invoices"
	LegacyDir   = "KAPIL_SONI_INVOICES" // flat folder used before the per-type layout
)

// Roots is the single source of truth for where artifacts are written and looked up.
// The Locator and the Discovery share one value.
type Roots struct {
	Primary string   `json:"primary"` // shared storage, e.g. <external>/Download
	Private string   `json:"private"` // app-private documents directory
	Legacy  []string `json:"legacy"`  // extra flat folders to scan
}

// TypeDir is {root}/KAPIL_SONI_APP/invoices/{typeFolder}
func TypeDir(root string, t document.Type) string {
	return filepath.Join(root, AppDir, InvoicesDir, t.Folder())
}

// WriteRoots returns the roots in write priority order, skipping unset ones
func (r Roots) WriteRoots() []string {
	var out []string
	for _, root := range []string{r.Primary, r.Private} {
		if root != "" {
			out = append(out, root)
		}
	}
	return out
}

// ScanDirs lists every folder Discovery looks into, in scan order:
// the type folders of each write root, then the legacy flat folders.
func (r Roots) ScanDirs() []string {
	var dirs []string
	for _, root := range r.WriteRoots() {
		for _, t := range document.Types {
			dirs = append(dirs, TypeDir(root, t))
		}
	}
	return append(dirs, r.legacyDirs()...)
}

func (r Roots) legacyDirs() []string {
	var dirs []string
	if r.Primary != "" {
		primary := filepath.Clean(r.Primary)
		dirs = append(dirs, filepath.Join(primary, LegacyDir))
		if parent := filepath.Dir(primary); parent != primary {
			dirs = append(dirs, filepath.Join(parent, LegacyDir))
		}
	}
	if r.Private != "" {
		dirs = append(dirs, filepath.Clean(r.Private))
	}
	for _, d := range r.Legacy {
		if d != "" {
			dirs = append(dirs, filepath.Clean(d))
		}
	}
	return dirs
}

func knownSuffixes() []string {
	out := make([]string, 0, len(document.Types))
	for _, t := range document.Types {
		out = append(out, t.FileSuffix())
	}
	return out
}
