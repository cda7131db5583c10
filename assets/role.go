package assets

import "strings"

// Role is the position an image takes on the page
type Role int

const (
	Logo Role = iota + 1
	HeaderDecoration
	Stamp
	Photo
	Signature
)

// Roles in resolution order
var Roles = []Role{Logo, HeaderDecoration, Stamp, Photo, Signature}

func (r Role) String() string {
	switch r {
	case Logo:
		return "logo"
	case HeaderDecoration:
		return "header-decoration"
	case Stamp:
		return "stamp"
	case Photo:
		return "customer-photo"
	case Signature:
		return "signature"
	default:
		return "unknown"
	}
}

// AppOwned roles are looked up in the source chain; the rest come from the caller
func (r Role) AppOwned() bool {
	return r == Logo || r == HeaderDecoration
}

// fileName is the file looked up by the source chain
func (r Role) fileName() string {
	switch r {
	case Logo:
		return "logo.png"
	case HeaderDecoration:
		return "HeaderSideElement.png"
	default:
		return ""
	}
}

// Reference points at user-supplied image data:
// a `data:image/...;base64,` URI, a `file://` URI or a filesystem path
type Reference string

// IsZero reports an absent reference. "default" is what the form sends when no image was picked.
func (ref Reference) IsZero() bool {
	s := strings.TrimSpace(string(ref))
	return s == "" || s == "default"
}

// IsInline reports a data URI
func (ref Reference) IsInline() bool {
	return strings.HasPrefix(strings.TrimSpace(string(ref)), "data:")
}

// String masks inline payloads so references can be logged
func (ref Reference) String() string {
	if ref.IsInline() {
		s := string(ref)
		if i := strings.IndexByte(s, ','); i > 0 {
			return s[:i] + ",…"
		}
		return "data:…"
	}
	return string(ref)
}
