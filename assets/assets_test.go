package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/zeptools/jewel-docs/pdfs"
)

func sample(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 0x28, B: 0x29, A: 0xff})
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURI(mime string, data []byte) Reference {
	return Reference("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func TestReference(t *testing.T) {
	assert.True(t, Reference("").IsZero())
	assert.True(t, Reference("  default ").IsZero())
	assert.False(t, Reference("/tmp/x.png").IsZero())
	assert.Equal(t, "data:image/png;base64,…", dataURI("image/png", []byte{1, 2, 3}).String())
	assert.Equal(t, "file:///a/b.png", Reference("file:///a/b.png").String())
}

func TestNormalize(t *testing.T) {
	pngData := encodePNG(t, sample(4, 4))

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, sample(4, 4), nil))

	var gifData bytes.Buffer
	require.NoError(t, gif.Encode(&gifData, sample(4, 4), nil))

	var bmpData bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpData, sample(4, 4)))

	sixteen := image.NewRGBA64(image.Rect(0, 0, 3, 3))
	sixteen.Set(1, 1, color.RGBA64{R: 0xffff, A: 0xffff})
	png16 := encodePNG(t, sixteen)
	require.Equal(t, byte(16), png16[24])

	tests := []struct {
		name     string
		data     []byte
		wantType string
		same     bool // passed through untouched
	}{
		{"png", pngData, pdfs.ImagePNG, true},
		{"jpeg", jpg.Bytes(), pdfs.ImageJPEG, true},
		{"gif", gifData.Bytes(), pdfs.ImagePNG, false},
		{"bmp", bmpData.Bytes(), pdfs.ImagePNG, false},
		{"png 16-bit", png16, pdfs.ImagePNG, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Normalize("stamp", tt.data)
			require.NoError(t, err)
			assert.Equal(t, "stamp", img.Name)
			assert.Equal(t, tt.wantType, img.Type)
			if tt.same {
				assert.Equal(t, tt.data, img.Data)
				return
			}
			assert.Equal(t, byte(8), img.Data[24], "re-encoded as 8-bit")
			_, err = png.Decode(bytes.NewReader(img.Data))
			assert.NoError(t, err)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	_, err := Normalize("photo", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Normalize("photo", []byte("hello, this is text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Normalize("photo", make([]byte, MaxBytes+1))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Normalize("photo", encodePNG(t, sample(MaxDimension+1, 1)))
	assert.ErrorIs(t, err, ErrTooManyPixels)

	truncated := encodePNG(t, sample(4, 4))[:20]
	_, err = Normalize("photo", truncated)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	data := encodePNG(t, sample(2, 2))
	p := filepath.Join(dir, "sig.png")
	require.NoError(t, os.WriteFile(p, data, 0o644))

	tests := []struct {
		name string
		ref  Reference
	}{
		{"path", Reference(p)},
		{"file uri", Reference("file://" + p)},
		{"data uri", dataURI("image/png", data)},
		{"unpadded data uri", Reference("data:image/png;base64," + base64.RawStdEncoding.EncodeToString(data))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}

	_, err := Load("")
	assert.ErrorIs(t, err, ErrNotProvided)
	_, err = Load("data:text/plain;base64,aGk=")
	assert.ErrorIs(t, err, ErrBadDataURI)
	_, err = Load("data:image/png,rawbytes")
	assert.ErrorIs(t, err, ErrBadDataURI)
	_, err = Load("file://example.com/x.png")
	assert.Error(t, err)
	_, err = Load(Reference(dir))
	assert.Error(t, err)
}

func TestResolver_AppOwnedChain(t *testing.T) {
	ctx := context.Background()

	t.Run("bundled", func(t *testing.T) {
		r := NewResolver(DefaultChain("", "")...)
		logo := r.Resolve(ctx, Logo, "")
		require.NotNil(t, logo)
		assert.Equal(t, pdfs.ImagePNG, logo.Type)
		assert.NotNil(t, r.Resolve(ctx, HeaderDecoration, ""))
	})

	t.Run("first hit wins", func(t *testing.T) {
		dir := t.TempDir()
		custom := encodePNG(t, sample(8, 8))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), custom, 0o644))

		r := NewResolver(NewDirSource("app-private", dir), Bundled())
		logo := r.Resolve(ctx, Logo, "")
		require.NotNil(t, logo)
		assert.Equal(t, custom, logo.Data)
	})

	t.Run("broken source falls through", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("garbage"), 0o644))

		r := NewResolver(NewDirSource("app-private", dir), Bundled())
		assert.NotNil(t, r.Resolve(ctx, Logo, ""))
	})

	t.Run("nothing anywhere", func(t *testing.T) {
		r := NewResolver(NewDirSource("app-private", t.TempDir()))
		_, err := r.Fetch(ctx, HeaderDecoration, "")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsAbsent(err))
		assert.Nil(t, r.Resolve(ctx, HeaderDecoration, ""))
	})

	t.Run("explicit reference overrides chain", func(t *testing.T) {
		custom := encodePNG(t, sample(3, 3))
		r := NewResolver(Bundled())
		logo := r.Resolve(ctx, Logo, dataURI("image/png", custom))
		require.NotNil(t, logo)
		assert.Equal(t, custom, logo.Data)
	})
}

func TestResolver_UserRoles(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(Bundled())

	_, err := r.Fetch(ctx, Stamp, "")
	assert.True(t, IsAbsent(err))

	_, err = r.Fetch(ctx, Signature, "/does/not/exist.png")
	require.Error(t, err)
	assert.False(t, IsAbsent(err))
	assert.Nil(t, r.Resolve(ctx, Signature, "/does/not/exist.png"))

	img := r.Resolve(ctx, Photo, dataURI("image/png", encodePNG(t, sample(2, 2))))
	require.NotNil(t, img)
	assert.Equal(t, "customer-photo", img.Name)
}

func TestResolver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewResolver(Bundled()).Fetch(ctx, Logo, "")
	assert.ErrorIs(t, err, context.Canceled)
}
