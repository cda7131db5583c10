package assets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/pdfs"
)

// Resolver finds image data for each role.
// App-owned roles walk the source chain, first hit wins; user roles load their reference.
type Resolver struct {
	chain []Source
}

// NewResolver creates a Resolver with the given app-owned source chain, in priority order
func NewResolver(chain ...Source) *Resolver {
	return &Resolver{chain: chain}
}

// DefaultChain is bundled assets, then the app-private directory, then the platform bundle directory
func DefaultChain(privateDir string, bundleDir string) []Source {
	return []Source{
		Bundled(),
		NewDirSource("app-private", privateDir),
		NewDirSource("platform-bundle", bundleDir),
	}
}

// Fetch resolves one image. ErrNotProvided (and ErrNotFound for app-owned roles) mean absence;
// any other error means the image was given but is unusable.
func (r *Resolver) Fetch(ctx context.Context, role Role, ref Reference) (*pdfs.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if role.AppOwned() && ref.IsZero() {
		return r.fromChain(ctx, role)
	}
	data, err := Load(ref)
	if err != nil {
		return nil, err
	}
	img, err := Normalize(role.String(), data)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", role, ref, err)
	}
	return img, nil
}

func (r *Resolver) fromChain(ctx context.Context, role Role) (*pdfs.Image, error) {
	var errs []error
	for _, src := range r.chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := src.Read(role)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err == nil {
			var img *pdfs.Image
			if img, err = Normalize(role.String(), data); err == nil {
				zap.L().Debug("asset resolved",
					zap.String("component", "assets"),
					zap.Stringer("role", role),
					zap.String("source", src.Name()))
				return img, nil
			}
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNotFound
}

// Resolve is Fetch without the error: nil means the page draws the fallback.
// Absence is logged at debug level, unusable data at warn level.
func (r *Resolver) Resolve(ctx context.Context, role Role, ref Reference) *pdfs.Image {
	img, err := r.Fetch(ctx, role, ref)
	if err == nil {
		return img
	}
	log := zap.L().With(zap.String("component", "assets"), zap.Stringer("role", role))
	if IsAbsent(err) {
		log.Debug("no image, using fallback")
	} else {
		log.Warn("image unusable, using fallback", zap.Stringer("ref", ref), zap.Error(err))
	}
	return nil
}

// IsAbsent reports whether err only says that no image was there to load
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotProvided) || errors.Is(err, ErrNotFound)
}
