package sharing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/jewel-docs/artifacts"
	"github.com/zeptools/jewel-docs/db/kvdb"
	"github.com/zeptools/jewel-docs/db/kvdb/impls/memory"
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/sec"
)

type fixture struct {
	svc  *Service
	kv   *memory.Client
	now  time.Time
	path string
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	roots := artifacts.Roots{Primary: t.TempDir()}
	a, err := artifacts.NewLocator(roots).Place(document.Record{CustomerName: "Asha Rao"}, document.Certificate, []byte("%PDF-1.3"))
	require.NoError(t, err)

	f := &fixture{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), path: a.Path}
	f.kv = memory.New(&kvdb.Conf{Type: memory.KVType, KeyPrefix: "ksdocs:"})
	f.kv.Now = func() time.Time { return f.now }
	require.NoError(t, f.kv.Init())

	cipher, err := sec.NewXChaCha20Poly1305CipherBase64([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	f.svc = NewService(f.kv, cipher, artifacts.NewDiscovery(roots))
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func TestCreateAndResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	share, err := f.svc.Create(ctx, f.path, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "asha_rao_certificate.pdf", share.Name)
	assert.Equal(t, f.now.Add(time.Hour), share.ExpiresAt)
	assert.NotContains(t, share.Token, share.ID)

	exists, err := f.kv.Exists(ctx, "ksdocs:share:"+share.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := f.svc.Resolve(ctx, share.Token)
	require.NoError(t, err)
	assert.Equal(t, f.path, got.Path)
	assert.Equal(t, share.ID, got.ID)

	f.advance(time.Hour)
	_, err = f.svc.Resolve(ctx, share.Token)
	assert.ErrorIs(t, err, ErrShareNotFound)
}

func TestResolveRejectsTampering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	share, err := f.svc.Create(ctx, f.path, 0)
	require.NoError(t, err)

	bad := []byte(share.Token)
	i := len(bad) / 2
	if bad[i] == 'x' {
		bad[i] = 'y'
	} else {
		bad[i] = 'x'
	}
	_, err = f.svc.Resolve(ctx, string(bad))
	assert.ErrorIs(t, err, ErrShareNotFound)
	assert.ErrorIs(t, err, sec.ErrTampered)

	_, err = f.svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrShareNotFound)
}

func TestResolveAfterArtifactDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	share, err := f.svc.Create(ctx, f.path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.path))
	_, err = f.svc.Resolve(ctx, share.Token)
	assert.ErrorIs(t, err, ErrShareNotFound)
}

func TestCreateRefusesUnknownPaths(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	outside := filepath.Join(t.TempDir(), "x_invoice.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("%PDF"), 0o644))
	_, err := f.svc.Create(ctx, outside, time.Hour)
	assert.ErrorIs(t, err, ErrNotShareable)

	missing := filepath.Join(filepath.Dir(f.path), "nobody_certificate.pdf")
	_, err = f.svc.Create(ctx, missing, time.Hour)
	assert.ErrorIs(t, err, ErrNotShareable)
}

func TestTTLIsCapped(t *testing.T) {
	f := newFixture(t)
	share, err := f.svc.Create(context.Background(), f.path, 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(MaxTTL), share.ExpiresAt)
}

func TestRecentAndRevoke(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Create(ctx, f.path, time.Minute)
	require.NoError(t, err)
	f.advance(time.Second)
	second, err := f.svc.Create(ctx, f.path, time.Hour)
	require.NoError(t, err)
	f.advance(time.Second)
	third, err := f.svc.Create(ctx, f.path, time.Hour)
	require.NoError(t, err)

	recent, err := f.svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{recent[0].ID, recent[1].ID, recent[2].ID})

	// a fresh token for a listed share still resolves
	got, err := f.svc.Resolve(ctx, recent[1].Token)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	f.advance(time.Minute)
	recent, err = f.svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	n, err := f.kv.Len(ctx, "ksdocs:shares:recent")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, f.svc.Revoke(ctx, second.ID))
	assert.ErrorIs(t, f.svc.Revoke(ctx, second.ID), ErrShareNotFound)
	_, err = f.svc.Resolve(ctx, second.Token)
	assert.ErrorIs(t, err, ErrShareNotFound)

	revoked, err := f.svc.RevokePath(ctx, f.path)
	require.NoError(t, err)
	assert.Equal(t, 1, revoked)
	recent, err = f.svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRecentIsBounded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for range MaxRecent + 5 {
		_, err := f.svc.Create(ctx, f.path, time.Hour)
		require.NoError(t, err)
	}
	n, err := f.kv.Len(ctx, "ksdocs:shares:recent")
	require.NoError(t, err)
	assert.Equal(t, int64(MaxRecent), n)
}
