package artifacts

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/jewel-docs/document"
)

var rec = document.Record{CustomerName: "Ramesh Patel", GrossWeight: 10, NetWeight: 9, GoldPurity: "22K"}

func testRoots(t *testing.T) Roots {
	base := t.TempDir()
	return Roots{
		Primary: filepath.Join(base, "storage", "Download"),
		Private: filepath.Join(base, "private"),
	}
}

func TestPathFor(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/r", "KAPIL_SONI_APP", "invoices", "certificate", "ramesh_patel_certificate.pdf"),
		PathFor("/r", "Ramesh Patel", document.Certificate))
	assert.Equal(t,
		filepath.Join("/r", "KAPIL_SONI_APP", "invoices", "jewellery-report", "ramesh_patel_report.pdf"),
		PathFor("/r", "Ramesh Patel", document.JewelleryReport))
	assert.Equal(t,
		filepath.Join("/r", "KAPIL_SONI_APP", "invoices", "bills", "unnamed_invoice.pdf"),
		PathFor("/r", "", document.Bill))
}

func TestPlace_Primary(t *testing.T) {
	roots := testRoots(t)
	l := NewLocator(roots)

	a, err := l.Place(rec, document.Certificate, []byte("%PDF-one"))
	require.NoError(t, err)
	assert.Equal(t, PathFor(roots.Primary, rec.CustomerName, document.Certificate), a.Path)
	assert.Equal(t, roots.Primary, a.Root)
	assert.False(t, a.Fallback)
	assert.Equal(t, int64(8), a.Size)
	assert.Len(t, a.Checksum, 64)

	sum, err := Checksum(a.Path)
	require.NoError(t, err)
	assert.Equal(t, a.Checksum, sum)

	// same slug and type overwrites
	b, err := l.Place(rec, document.Certificate, []byte("%PDF-two!"))
	require.NoError(t, err)
	assert.Equal(t, a.Path, b.Path)
	data, err := os.ReadFile(b.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-two!", string(data))
	assert.NotEqual(t, a.Checksum, b.Checksum)

	// no temp files left behind
	des, err := os.ReadDir(filepath.Dir(a.Path))
	require.NoError(t, err)
	assert.Len(t, des, 1)
}

func TestPlace_FallbackRoot(t *testing.T) {
	roots := testRoots(t)
	// a regular file where the primary root should be makes MkdirAll fail
	require.NoError(t, os.MkdirAll(filepath.Dir(roots.Primary), 0o755))
	require.NoError(t, os.WriteFile(roots.Primary, []byte("not a dir"), 0o644))

	a, err := NewLocator(roots).Place(rec, document.JewelleryReport, []byte("%PDF"))
	require.NoError(t, err)
	assert.True(t, a.Fallback)
	assert.Equal(t, roots.Private, a.Root)
	assert.Equal(t, PathFor(roots.Private, rec.CustomerName, document.JewelleryReport), a.Path)
	assert.FileExists(t, a.Path)
}

func TestPlace_BothRootsFail(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	roots := Roots{Primary: filepath.Join(blocker, "a"), Private: filepath.Join(blocker, "b")}

	_, err := NewLocator(roots).Place(rec, document.Bill, []byte("%PDF"))
	require.ErrorIs(t, err, ErrNotWritten)
	assert.Contains(t, err.Error(), filepath.Join(blocker, "a"))
	assert.Contains(t, err.Error(), filepath.Join(blocker, "b"))

	_, err = NewLocator(Roots{}).Place(rec, document.Bill, nil)
	assert.ErrorIs(t, err, ErrNoRoots)
}

func TestScanDirs(t *testing.T) {
	roots := Roots{Primary: "/sd/Download", Private: "/data/app", Legacy: []string{"/old"}}
	assert.Equal(t, []string{
		"/sd/Download/KAPIL_SONI_APP/invoices/certificate",
		"/sd/Download/KAPIL_SONI_APP/invoices/jewellery-report",
		"/sd/Download/KAPIL_SONI_APP/invoices/bills",
		"/data/app/KAPIL_SONI_APP/invoices/certificate",
		"/data/app/KAPIL_SONI_APP/invoices/jewellery-report",
		"/data/app/KAPIL_SONI_APP/invoices/bills",
		"/sd/Download/KAPIL_SONI_INVOICES",
		"/sd/KAPIL_SONI_INVOICES",
		"/data/app",
		"/old",
	}, roots.ScanDirs())
}

func TestDiscovery_PlaceThenList(t *testing.T) {
	roots := testRoots(t)
	d := NewDiscovery(roots)
	assert.Empty(t, d.List())
	assert.NotNil(t, d.Scan())

	l := NewLocator(roots)
	var placed []string
	for _, typ := range document.Types {
		a, err := l.Place(rec, typ, []byte("%PDF"))
		require.NoError(t, err)
		placed = append(placed, a.Path)
	}
	assert.ElementsMatch(t, placed, d.List())

	for _, e := range d.Scan() {
		assert.Equal(t, "ramesh patel", e.CustomerName)
		assert.Equal(t, int64(4), e.Size)
	}
}

func TestDiscovery_NoDedupAcrossRoots(t *testing.T) {
	roots := testRoots(t)
	for _, root := range roots.WriteRoots() {
		p := PathFor(root, rec.CustomerName, document.Bill)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("%PDF"), 0o644))
	}
	assert.Len(t, NewDiscovery(roots).List(), 2)
}

func TestDiscovery_SuffixFilterAndLegacy(t *testing.T) {
	roots := testRoots(t)
	legacy := filepath.Join(roots.Primary, LegacyDir)
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.MkdirAll(roots.Private, 0o755))
	for _, name := range []string{"old_invoice.pdf", "notes.pdf", "x_invoice.pdf.bak", "photo.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(legacy, name), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(roots.Private, "priv_certificate.pdf"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(legacy, "dir_report.pdf"), 0o755))

	assert.ElementsMatch(t, []string{
		filepath.Join(legacy, "old_invoice.pdf"),
		filepath.Join(roots.Private, "priv_certificate.pdf"),
	}, NewDiscovery(roots).List())
}

func TestDiscovery_UnreadableFolderSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	roots := testRoots(t)
	a, err := NewLocator(roots).Place(rec, document.Bill, []byte("%PDF"))
	require.NoError(t, err)
	locked := TypeDir(roots.Primary, document.Certificate)
	require.NoError(t, os.MkdirAll(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	assert.Equal(t, []string{a.Path}, NewDiscovery(roots).List())
}

func TestFilter(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{Name: "ramesh_certificate.pdf", CustomerName: "ramesh", Type: document.Certificate, ModTime: now.Add(-2 * time.Hour)},
		{Name: "sita_report.pdf", CustomerName: "sita", Type: document.JewelleryReport, ModTime: now},
		{Name: "ramesh_invoice.pdf", CustomerName: "ramesh", Type: document.Bill, ModTime: now.Add(-time.Hour)},
	}
	names := func(es []Entry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.Name)
		}
		return out
	}

	assert.Equal(t, []string{"sita_report.pdf", "ramesh_invoice.pdf", "ramesh_certificate.pdf"}, names(Filter(entries, "all", "")))
	assert.Equal(t, []string{"ramesh_invoice.pdf", "ramesh_certificate.pdf"}, names(Filter(entries, "", "RAMESH")))
	assert.Equal(t, []string{"sita_report.pdf"}, names(Filter(entries, "report", "")))
	assert.Equal(t, []string{"ramesh_invoice.pdf"}, names(Filter(entries, "invoice", "ram")))
	assert.Equal(t, []string{"sita_report.pdf"}, names(Filter(entries, "all", "report")))
	assert.Empty(t, Filter(entries, "certificate", "sita"))
	assert.Empty(t, Filter(entries, "foo", ""))
	assert.NotNil(t, Filter(entries, "foo", ""))
}

func TestDiscovery_Delete(t *testing.T) {
	roots := testRoots(t)
	d := NewDiscovery(roots)
	a, err := NewLocator(roots).Place(rec, document.Bill, []byte("%PDF"))
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "x_invoice.pdf")
	require.NoError(t, os.WriteFile(outside, nil, 0o644))
	assert.ErrorIs(t, d.Delete(outside), ErrOutsideRoots)
	assert.FileExists(t, outside)

	traversal := filepath.Join(TypeDir(roots.Primary, document.Bill), "..", "..", "..", "..", "x_invoice.pdf")
	assert.ErrorIs(t, d.Delete(traversal), ErrOutsideRoots)

	notArtifact := filepath.Join(TypeDir(roots.Primary, document.Bill), "notes.txt")
	assert.ErrorIs(t, d.Delete(notArtifact), ErrOutsideRoots)

	require.NoError(t, d.Delete(a.Path))
	assert.NoFileExists(t, a.Path)
	assert.Error(t, d.Delete(a.Path))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", HumanSize(0))
	assert.Equal(t, "512 Bytes", HumanSize(512))
	assert.Equal(t, "1.5 KB", HumanSize(1536))
	assert.Equal(t, "2 MB", HumanSize(2*1024*1024))
	assert.Equal(t, "1.25 KB", HumanSize(1280))
}
