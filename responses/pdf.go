package responses

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

func WritePDFBytesWithFilename(w http.ResponseWriter, filename string, PDFBytes []byte) {
	WritePDFResponseHeaders(w, filename)
	w.WriteHeader(http.StatusOK) // Response Header Sent & Frozen
	if _, err := w.Write(PDFBytes); err != nil {
		zap.L().Error("writing PDF to response", zap.String("component", "responses"), zap.Error(err))
	}
}

// WritePDFResponseHeaders sets the PDF headers. The status is left to the caller.
func WritePDFResponseHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

// ServePDFFile streams a PDF from disk inline, with range and If-Modified-Since support
func ServePDFFile(w http.ResponseWriter, r *http.Request, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			zap.L().Warn("closing PDF file", zap.String("component", "responses"), zap.Error(closeErr))
		}
	}()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", path)
	}
	WritePDFResponseHeaders(w, filepath.Base(path))
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
	return nil
}
