package artifacts

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/rw"
)

var (
	ErrNoRoots    = errors.New("no storage root configured")
	ErrNotWritten = errors.New("document could not be saved")
)

// Artifact is the result of placing one rendered document
type Artifact struct {
	Path     string        `json:"path"`
	Root     string        `json:"root"`
	Fallback bool          `json:"fallback"` // written under the private root after the primary failed
	Type     document.Type `json:"type"`
	Size     int64         `json:"size"`
	Checksum string        `json:"checksum"` // BLAKE2b-256, hex
}

// Locator computes artifact paths and persists bytes with a fallback root
type Locator struct {
	roots Roots
}

func NewLocator(roots Roots) *Locator {
	return &Locator{roots: roots}
}

func (l *Locator) Roots() Roots {
	return l.roots
}

// PathFor returns the canonical path of an artifact under root
func PathFor(root string, customerName string, t document.Type) string {
	return filepath.Join(TypeDir(root, t), FileName(customerName, t.Suffix()))
}

// Place writes data at the canonical path under the primary root, or under the private
// root when the primary fails. An existing artifact with the same slug and type is replaced.
func (l *Locator) Place(rec document.Record, t document.Type, data []byte) (Artifact, error) {
	roots := l.roots.WriteRoots()
	if len(roots) == 0 {
		return Artifact{}, ErrNoRoots
	}
	var errs []error
	for i, root := range roots {
		p := PathFor(root, rec.CustomerName, t)
		size, sum, err := writeFile(p, data)
		if err == nil {
			return Artifact{Path: p, Root: root, Fallback: i > 0, Type: t, Size: size, Checksum: sum}, nil
		}
		zap.L().Warn("artifact write failed",
			zap.String("component", "artifacts"),
			zap.String("path", p),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("write %s: %w", p, err))
	}
	return Artifact{}, fmt.Errorf("%w: %w", ErrNotWritten, errors.Join(errs...))
}

// writeFile writes through a temp file in the destination directory and renames it into
// place, so readers never see a partial artifact
func writeFile(path string, data []byte) (int64, string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, "", err
	}
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	hash, err := blake2b.New256(nil)
	if err != nil {
		return 0, "", err
	}
	cw := rw.NewCountWriter(io.MultiWriter(tmp, hash))
	if _, err = cw.Write(data); err != nil {
		return 0, "", err
	}
	if err = tmp.Sync(); err != nil {
		return 0, "", err
	}
	if err = tmp.Close(); err != nil {
		return 0, "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, "", err
	}
	tmp = nil
	return cw.BytesWritten(), hex.EncodeToString(hash.Sum(nil)), nil
}

// Checksum returns the BLAKE2b-256 hex digest of a file
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	hash, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
