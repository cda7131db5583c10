package storages

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeptools/jewel-docs/artifacts"
)

func TestResolve(t *testing.T) {
	root := filepath.FromSlash("/srv/ksdocs")
	c := Conf{
		Primary: filepath.FromSlash("/sdcard/Download"),
		Legacy:  []string{"old"},
	}.Resolve(root)

	assert.Equal(t, Conf{
		Primary:  filepath.FromSlash("/sdcard/Download"),
		Private:  filepath.Join(root, "documents"),
		AssetDir: filepath.Join(root, "assets"),
		Legacy:   []string{filepath.Join(root, "old")},
	}, c)
	assert.Equal(t, artifacts.Roots{
		Primary: c.Primary,
		Private: c.Private,
		Legacy:  c.Legacy,
	}, c.Roots())
}
