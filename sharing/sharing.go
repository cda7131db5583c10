// Package sharing hands out expiring links to single artifacts.
// A share is a KV hash `share:<uuid>` holding the artifact path; the link carries the
// uuid sealed with XChaCha20-Poly1305, so ids can be neither guessed nor forged.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/db/kvdb"
	"github.com/zeptools/jewel-docs/sec"
)

const (
	DefaultTTL = 24 * time.Hour
	MaxTTL     = 30 * 24 * time.Hour
	MaxRecent  = 50
)

var (
	ErrShareNotFound = errors.New("share not found or expired")
	ErrNotShareable  = errors.New("artifact cannot be shared")
)

// Locator tells whether a path is a known artifact location
type Locator interface {
	Contains(path string) bool
}

type Share struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	kv      kvdb.Client
	cipher  *sec.XChaCha20Poly1305Cipher
	locator Locator
	Now     func() time.Time
}

func NewService(kv kvdb.Client, cipher *sec.XChaCha20Poly1305Cipher, locator Locator) *Service {
	return &Service{kv: kv, cipher: cipher, locator: locator, Now: time.Now}
}

func (s *Service) prefix() string {
	if conf := s.kv.GetConf(); conf != nil {
		return conf.KeyPrefix
	}
	return ""
}

func (s *Service) shareKey(id string) string {
	return s.prefix() + "share:" + id
}

func (s *Service) recentKey() string {
	return s.prefix() + "shares:recent"
}

func (s *Service) shareable(path string) error {
	if !s.locator.Contains(path) {
		return fmt.Errorf("%w: %s is outside the document folders", ErrNotShareable, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotShareable, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a file", ErrNotShareable, path)
	}
	return nil
}

// Create stores a share for path living ttl (DefaultTTL when zero, capped at MaxTTL)
func (s *Service) Create(ctx context.Context, path string, ttl time.Duration) (*Share, error) {
	if err := s.shareable(path); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	ttl = min(ttl, MaxTTL)

	now := s.Now().UTC()
	share := &Share{
		ID:        uuid.NewString(),
		Path:      path,
		Name:      filepath.Base(path),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	key := s.shareKey(share.ID)
	err := s.kv.SetFields(ctx, key, map[string]any{
		"path":       share.Path,
		"created_at": share.CreatedAt.Format(time.RFC3339),
		"expires_at": share.ExpiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("store share: %w", err)
	}
	if _, err = s.kv.Expire(ctx, key, ttl); err != nil {
		_, _ = s.kv.Delete(ctx, key)
		return nil, fmt.Errorf("expire share: %w", err)
	}
	if err = s.kv.Push(ctx, s.recentKey(), share.ID); err != nil {
		return nil, fmt.Errorf("track share: %w", err)
	}
	if err = s.kv.Trim(ctx, s.recentKey(), -MaxRecent, -1); err != nil {
		return nil, fmt.Errorf("track share: %w", err)
	}
	if share.Token, err = s.cipher.EncryptEncode([]byte(share.ID)); err != nil {
		return nil, err
	}
	zap.L().Info("share created",
		zap.String("component", "sharing"),
		zap.String("id", share.ID),
		zap.String("path", share.Path),
		zap.Time("expires_at", share.ExpiresAt))
	return share, nil
}

// load reads a live share. Missing or expired shares give ErrShareNotFound.
func (s *Service) load(ctx context.Context, id string) (*Share, error) {
	fields, err := s.kv.GetAllFields(ctx, s.shareKey(id))
	if err != nil {
		return nil, err
	}
	if fields["path"] == "" {
		return nil, fmt.Errorf("%w: %s", ErrShareNotFound, id)
	}
	share := &Share{ID: id, Path: fields["path"], Name: filepath.Base(fields["path"])}
	share.CreatedAt, _ = time.Parse(time.RFC3339, fields["created_at"])
	share.ExpiresAt, _ = time.Parse(time.RFC3339, fields["expires_at"])
	return share, nil
}

// Resolve opens a token and returns its share. Forged, expired and revoked tokens,
// and shares whose artifact was deleted since, are all ErrShareNotFound.
func (s *Service) Resolve(ctx context.Context, token string) (*Share, error) {
	plain, err := s.cipher.DecodeDecrypt(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShareNotFound, err)
	}
	id, err := uuid.ParseBytes(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShareNotFound, err)
	}
	share, err := s.load(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(share.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShareNotFound, err)
	}
	share.Token = token
	return share, nil
}

// Recent lists up to n live shares, newest first, each with a fresh token.
// Ids of expired shares are dropped from the recent list on the way.
func (s *Service) Recent(ctx context.Context, n int) ([]*Share, error) {
	if n <= 0 || n > MaxRecent {
		n = MaxRecent
	}
	ids, err := s.kv.Range(ctx, s.recentKey(), int64(-n), -1)
	if err != nil {
		return nil, err
	}
	slices.Reverse(ids)
	shares := make([]*Share, 0, len(ids))
	for _, id := range ids {
		share, err := s.load(ctx, id)
		if errors.Is(err, ErrShareNotFound) {
			if _, err = s.kv.Remove(ctx, s.recentKey(), 0, id); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if share.Token, err = s.cipher.EncryptEncode([]byte(id)); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, nil
}

// Revoke ends a share before it expires
func (s *Service) Revoke(ctx context.Context, id string) error {
	n, err := s.kv.Delete(ctx, s.shareKey(id))
	if err != nil {
		return err
	}
	if _, err = s.kv.Remove(ctx, s.recentKey(), 0, id); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrShareNotFound, id)
	}
	zap.L().Info("share revoked", zap.String("component", "sharing"), zap.String("id", id))
	return nil
}

// RevokePath ends every recent share of path, e.g. when the artifact is deleted
func (s *Service) RevokePath(ctx context.Context, path string) (int, error) {
	ids, err := s.kv.Range(ctx, s.recentKey(), 0, -1)
	if err != nil {
		return 0, err
	}
	revoked := 0
	for _, id := range ids {
		share, err := s.load(ctx, id)
		if err != nil || share.Path != path {
			continue
		}
		if err = s.Revoke(ctx, id); err == nil {
			revoked++
		}
	}
	return revoked, nil
}
