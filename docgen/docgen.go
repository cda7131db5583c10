// Package docgen runs one document generation end to end:
// validate the form, resolve the images, render, place the file, record it.
package docgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/artifacts"
	"github.com/zeptools/jewel-docs/assets"
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/layout"
	"github.com/zeptools/jewel-docs/nullable"
	"github.com/zeptools/jewel-docs/pdfs"
	"github.com/zeptools/jewel-docs/pdfs/impls/fpdf"
	"github.com/zeptools/jewel-docs/records"
)

// Request is one generation. Image references are optional; Logo and HeaderDecoration
// override the configured app assets.
type Request struct {
	Form             document.Form    `json:"form"`
	Type             document.Type    `json:"type"`
	Stamp            assets.Reference `json:"stamp"`
	Photo            assets.Reference `json:"photo"`
	Signature        assets.Reference `json:"signature"`
	Logo             assets.Reference `json:"logo"`
	HeaderDecoration assets.Reference `json:"header_decoration"`
}

type Result struct {
	Artifact artifacts.Artifact `json:"artifact"`
	Record   document.Record    `json:"record"`
	Type     document.Type      `json:"type"`
	RecordID int64              `json:"record_id,omitempty"` // 0 when not recorded
	Warnings []string           `json:"warnings,omitempty"`
}

// WriterFactory opens a fresh writer sized for a layout
type WriterFactory func(l layout.Layout) pdfs.Writer

// FPDFWriters is the default WriterFactory
func FPDFWriters(title string) WriterFactory {
	return func(l layout.Layout) pdfs.Writer {
		return fpdf.New(l.Paper, l.Orientation, fpdf.WithMetadata(title, "", "ksdocs"))
	}
}

type Generator struct {
	mu sync.Mutex // one generation at a time

	resolver  *assets.Resolver
	renderer  *layout.Renderer
	locator   *artifacts.Locator
	records   *records.Store // optional
	newWriter WriterFactory
}

func New(resolver *assets.Resolver, renderer *layout.Renderer, locator *artifacts.Locator, store *records.Store) *Generator {
	return &Generator{
		resolver:  resolver,
		renderer:  renderer,
		locator:   locator,
		records:   store,
		newWriter: FPDFWriters("Document"),
	}
}

// WithWriters replaces the writer factory
func (g *Generator) WithWriters(f WriterFactory) *Generator {
	g.newWriter = f
	return g
}

// Generate validates, renders and places a document. A failing record insert
// does not fail the generation: the artifact stays and the problem is a warning.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	rec, err := req.Form.Validate()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	started := time.Now()
	log := zap.L().With(zap.String("component", "docgen"), zap.Stringer("type", req.Type))
	result := &Result{Record: rec, Type: req.Type}

	imgs, warnings, err := g.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)

	l := g.renderer.Layout(req.Type)
	data, err := g.renderer.Render(g.newWriter(l), rec, imgs, req.Type)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact, err = g.locator.Place(rec, req.Type, data)
	if err != nil {
		return nil, err
	}
	if result.Artifact.Fallback {
		result.Warnings = append(result.Warnings, "saved to the app folder; shared storage was not writable")
	}

	if g.records != nil {
		result.RecordID, err = g.records.Insert(ctx, records.Record{
			Record:            rec,
			CustomerSignature: storedRef(req.Signature),
			CustomerImage:     storedRef(req.Photo),
			PDFPath:           result.Artifact.Path,
			DocumentType:      req.Type,
			Checksum:          result.Artifact.Checksum,
		})
		if err != nil {
			log.Error("record not saved", zap.String("path", result.Artifact.Path), zap.Error(err))
			result.Warnings = append(result.Warnings, "document saved but not recorded: "+err.Error())
		}
	}

	log.Info("document generated",
		zap.String("path", result.Artifact.Path),
		zap.Int64("size", result.Artifact.Size),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("took", time.Since(started)))
	return result, nil
}

// resolve fetches the images in the fixed order logo, header decoration, stamp, photo, signature.
// Unusable images become warnings and fallbacks; only a canceled ctx is an error.
func (g *Generator) resolve(ctx context.Context, req Request) (layout.Images, []string, error) {
	var imgs layout.Images
	var warnings []string
	fetch := func(role assets.Role, ref assets.Reference) (*pdfs.Image, error) {
		img, err := g.resolver.Fetch(ctx, role, ref)
		if err == nil {
			return img, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !assets.IsAbsent(err) {
			zap.L().Warn("image unusable, using fallback",
				zap.String("component", "docgen"),
				zap.Stringer("role", role),
				zap.Stringer("ref", ref),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("%s image not used: %v", role, err))
		}
		return nil, nil
	}
	var err error
	if imgs.Logo, err = fetch(assets.Logo, req.Logo); err != nil {
		return imgs, nil, err
	}
	if imgs.HeaderDecoration, err = fetch(assets.HeaderDecoration, req.HeaderDecoration); err != nil {
		return imgs, nil, err
	}
	for _, s := range []struct {
		role assets.Role
		ref  assets.Reference
		slot *layout.Slot
	}{
		{assets.Stamp, req.Stamp, &imgs.Stamp},
		{assets.Photo, req.Photo, &imgs.Photo},
		{assets.Signature, req.Signature, &imgs.Signature},
	} {
		if s.ref.IsZero() {
			continue
		}
		img, err := fetch(s.role, s.ref)
		if err != nil {
			return imgs, nil, err
		}
		*s.slot = layout.Use(img)
	}
	return imgs, warnings, nil
}

// storedRef keeps file references for the record; inline payloads are not stored
func storedRef(ref assets.Reference) nullable.String {
	if ref.IsZero() {
		return nullable.String{}
	}
	if ref.IsInline() {
		return nullable.StringOf("inline")
	}
	return nullable.StringOf(string(ref))
}
