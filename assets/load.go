package assets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
)

var (
	ErrNotProvided = errors.New("image not provided")
	ErrBadDataURI  = errors.New("malformed data URI")
)

// Load returns the raw bytes a reference points at
func Load(ref Reference) ([]byte, error) {
	if ref.IsZero() {
		return nil, ErrNotProvided
	}
	s := strings.TrimSpace(string(ref))
	switch {
	case strings.HasPrefix(s, "data:"):
		return decodeDataURI(s)
	case strings.HasPrefix(s, "file://"):
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return nil, fmt.Errorf("file URI with remote host %q", u.Host)
		}
		return readLimited(u.Path)
	default:
		return readLimited(s)
	}
}

func decodeDataURI(s string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrBadDataURI
	}
	if mediaType := strings.TrimSuffix(meta, ";base64"); mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: media type %q", ErrBadDataURI, mediaType)
	}
	payload = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxBytes+2 {
		return nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// unpadded
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
		}
	}
	return data, nil
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file: %w", path, fs.ErrInvalid)
	}
	if info.Size() > MaxBytes {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	return os.ReadFile(path)
}
