package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/document"
)

var ErrOutsideRoots = errors.New("path is not a known artifact location")

// Entry is one discovered artifact
type Entry struct {
	Path         string        `json:"path"`
	Name         string        `json:"name"`
	Type         document.Type `json:"type"`
	CustomerName string        `json:"customer_name"` // derived from the file name
	Size         int64         `json:"size"`
	ModTime      time.Time     `json:"mod_time"`
}

// Discovery finds artifacts by re-deriving the folder and name convention. There is no index.
type Discovery struct {
	roots Roots
}

func NewDiscovery(roots Roots) *Discovery {
	return &Discovery{roots: roots}
}

// IsArtifactName reports whether a file name follows the suffix convention
func IsArtifactName(name string) bool {
	if !strings.HasSuffix(name, ".pdf") {
		return false
	}
	_, ok := document.TypeFromFilename(name)
	return ok
}

// List returns the paths of every artifact, folder by folder in scan order. Not deduplicated.
func (d *Discovery) List() []string {
	entries := d.Scan()
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// Scan returns every artifact with its metadata. Missing or unreadable folders are skipped.
func (d *Discovery) Scan() []Entry {
	out := []Entry{}
	for _, dir := range d.roots.ScanDirs() {
		des, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				zap.L().Debug("folder not accessible",
					zap.String("component", "artifacts"),
					zap.String("dir", dir),
					zap.Error(err))
			}
			continue
		}
		for _, de := range des {
			if de.IsDir() || !IsArtifactName(de.Name()) {
				continue
			}
			info, err := de.Info()
			if err != nil {
				continue
			}
			t, _ := document.TypeFromFilename(de.Name())
			out = append(out, Entry{
				Path:         filepath.Join(dir, de.Name()),
				Name:         de.Name(),
				Type:         t,
				CustomerName: CustomerFromFileName(de.Name()),
				Size:         info.Size(),
				ModTime:      info.ModTime(),
			})
		}
	}
	return out
}

// Filter keeps entries of one type ("" or "all" keeps every type) whose customer name,
// file name or type contains query, case-insensitively. The result is sorted newest first.
// An unknown kind matches nothing.
func Filter(entries []Entry, kind string, query string) []Entry {
	kind = strings.ToLower(strings.TrimSpace(kind))
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(entries))
	allKinds := kind == "" || kind == "all"
	want, known := document.LookupType(kind)
	if !allKinds && !known {
		return out
	}
	for _, e := range entries {
		if !allKinds && e.Type != want {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(e.CustomerName), query) &&
			!strings.Contains(strings.ToLower(e.Name), query) &&
			!strings.Contains(e.Type.Suffix(), query) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.ModTime.Compare(a.ModTime)
	})
	return out
}

// Contains reports whether path is an artifact inside one of the scanned folders
func (d *Discovery) Contains(path string) bool {
	if path == "" || !IsArtifactName(filepath.Base(path)) {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	dir := filepath.Dir(abs)
	for _, scanned := range d.roots.ScanDirs() {
		if s, err := filepath.Abs(scanned); err == nil && s == dir {
			return true
		}
	}
	return false
}

// Delete removes one artifact. Paths outside the scanned folders are refused.
func (d *Discovery) Delete(path string) error {
	if !d.Contains(path) {
		return fmt.Errorf("%s: %w", path, ErrOutsideRoots)
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	zap.L().Info("artifact deleted", zap.String("component", "artifacts"), zap.String("path", path))
	return nil
}

// HumanSize formats a byte count as "1.5 KB"
func HumanSize(n int64) string {
	const k = 1024
	units := []string{"Bytes", "KB", "MB", "GB"}
	if n < k {
		return fmt.Sprintf("%d Bytes", n)
	}
	v := float64(n)
	i := 0
	for v >= k && i < len(units)-1 {
		v /= k
		i++
	}
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", v), "0"), ".0") + " " + units[i]
}
