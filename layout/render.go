package layout

import (
	"fmt"
	"sync/atomic"

	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/pdfs"
)

// Renderer composes documents from a set of per-type layouts
type Renderer struct {
	layouts    *pdfs.TemplateStore[Layout]
	letterhead atomic.Pointer[document.Letterhead] // [Hot Reload] SetLetterhead
}

// NewRenderer creates a Renderer with the built-in layouts
func NewRenderer(lh document.Letterhead) *Renderer {
	r := &Renderer{layouts: DefaultStore()}
	r.SetLetterhead(lh)
	return r
}

// SetLetterhead swaps the letterhead used by subsequent renders
func (r *Renderer) SetLetterhead(lh document.Letterhead) {
	lh = lh.WithDefaults()
	r.letterhead.Store(&lh)
}

func (r *Renderer) Letterhead() document.Letterhead {
	return *r.letterhead.Load()
}

// Layouts exposes the template store, e.g. to override the geometry of a type
func (r *Renderer) Layouts() *pdfs.TemplateStore[Layout] {
	return r.layouts
}

// Layout returns the layout of a type, falling back to the built-in one
func (r *Renderer) Layout(t document.Type) Layout {
	if l, ok := r.layouts.Get(t.String()); ok {
		return l
	}
	return ForType(t)
}

// Build returns the instruction list of one document
func (r *Renderer) Build(rec document.Record, imgs Images, t document.Type) []Instruction {
	return Build(r.Layout(t), r.Letterhead(), rec, imgs)
}

// Render draws one page on w and returns the encoded document.
// w must be fresh and sized with the layout's paper and orientation.
func (r *Renderer) Render(w pdfs.Writer, rec document.Record, imgs Images, t document.Type) ([]byte, error) {
	w.AddBlankPage()
	if err := Play(w, r.Build(rec, imgs, t)); err != nil {
		return nil, err
	}
	data, err := w.ProduceBytes()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return data, nil
}
