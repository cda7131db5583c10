package tpl

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const FileSuffix = ".gohtml"

//go:embed html
var builtin embed.FS

type HTMLTemplateStore struct {
	Base map[string]*template.Template // each file → one template
}

func NewHTMLTemplateStore() *HTMLTemplateStore {
	return &HTMLTemplateStore{
		Base: make(map[string]*template.Template),
	}
}

// Builtin returns a store holding the templates shipped with the binary
func Builtin() (*HTMLTemplateStore, error) {
	s := NewHTMLTemplateStore()
	if err := s.LoadBaseTemplates(builtin, "html"); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadBaseTemplates parses every *.gohtml file under tplRoot of fsys.
// The key is the slash path relative to tplRoot without the suffix.
func (s *HTMLTemplateStore) LoadBaseTemplates(fsys fs.FS, tplRoot string) error {
	tplRoot = path.Clean(tplRoot)
	err := fs.WalkDir( // Pre-order Depth-first Traversal
		fsys,
		tplRoot,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			// Skip Hidden Files & Hidden Directories
			if strings.HasPrefix(name, ".") && p != tplRoot {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(p, FileSuffix) {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			if !utf8.Valid(data) {
				return fmt.Errorf("file %s is not valid UTF-8", p)
			}
			key := strings.TrimSuffix(strings.TrimPrefix(p, tplRoot+"/"), FileSuffix)
			if _, exists := s.Base[key]; exists {
				return fmt.Errorf("duplicate template key detected: %s (file=%s)", key, p)
			}
			t, err := template.New(key).Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse error in %s: %w", p, err)
			}
			s.Base[key] = t
			return nil
		},
	)
	if err != nil {
		return err
	}
	zap.L().Info("templates loaded",
		zap.String("component", "tpl"),
		zap.Int("count", len(s.Base)),
		zap.String("root", tplRoot))
	return nil
}

// Render executes a template into w. Output is buffered so a failing template writes nothing.
func (s *HTMLTemplateStore) Render(w io.Writer, key string, data any) error {
	t, ok := s.Base[key]
	if !ok {
		return fmt.Errorf("template %q not found", key)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s: %w", key, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
