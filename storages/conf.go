package storages

import (
	"path/filepath"

	"github.com/zeptools/jewel-docs/artifacts"
)

// Conf is config/.storages.json. Relative paths are resolved against the app root.
type Conf struct {
	Primary   string   `json:"primary"`    // shared documents root, e.g. /sdcard/Download
	Private   string   `json:"private"`    // app-private documents root, also the fallback write root
	BundleDir string   `json:"bundle_dir"` // platform bundle assets
	AssetDir  string   `json:"asset_dir"`  // app-private assets (logo.png, stamp.png, ...)
	Legacy    []string `json:"legacy"`     // extra flat folders scanned for old documents
}

// Resolve returns a copy with every path made absolute under appRoot.
// Empty Private defaults to {appRoot}/documents, empty AssetDir to {appRoot}/assets.
func (c Conf) Resolve(appRoot string) Conf {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(appRoot, p)
	}
	out := Conf{
		Primary:   abs(c.Primary),
		Private:   abs(c.Private),
		BundleDir: abs(c.BundleDir),
		AssetDir:  abs(c.AssetDir),
	}
	if out.Private == "" {
		out.Private = filepath.Join(appRoot, "documents")
	}
	if out.AssetDir == "" {
		out.AssetDir = filepath.Join(appRoot, "assets")
	}
	for _, l := range c.Legacy {
		out.Legacy = append(out.Legacy, abs(l))
	}
	return out
}

// Roots maps the storage config to the artifact roots shared by Locator and Discovery
func (c Conf) Roots() artifacts.Roots {
	return artifacts.Roots{
		Primary: c.Primary,
		Private: c.Private,
		Legacy:  c.Legacy,
	}
}
