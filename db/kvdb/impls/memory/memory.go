// Package memory is an in-process kvdb backend with redis-like semantics for
// strings, lists and hashes. Expired keys are dropped lazily on access and by Sweep.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/db/kvdb"
)

const KVType = "memory"

func init() {
	kvdb.RegisterFactory(KVType, func(conf *kvdb.Conf) (kvdb.Client, error) {
		return New(conf), nil
	})
}

type kind int

const (
	kindString kind = iota
	kindList
	kindHash
)

type entry struct {
	kind     kind
	str      string
	list     []string
	hash     map[string]string
	expireAt time.Time // zero = persistent
}

type Client struct {
	Conf *kvdb.Conf
	Now  func() time.Time

	mu   sync.Mutex
	data map[string]*entry
}

// Ensure memory.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func New(conf *kvdb.Conf) *Client {
	if conf == nil {
		conf = &kvdb.Conf{Type: KVType}
	}
	return &Client{Conf: conf, Now: time.Now, data: make(map[string]*entry)}
}

func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]*entry)
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	zap.L().Info("memory kv initialized", zap.String("component", "kvdb"))
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*entry)
	return nil
}

func (c *Client) GetHandle() any {
	return c
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

// Sweep drops every expired key and returns how many were dropped
func (c *Client) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Now()
	n := 0
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
			n++
		}
	}
	return n
}

func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// lookup returns the live entry for key. c.mu must be held.
func (c *Client) lookup(key string) *entry {
	e, ok := c.data[key]
	if !ok {
		return nil
	}
	if e.expired(c.Now()) {
		delete(c.data, key)
		return nil
	}
	return e
}

func (c *Client) lookupKind(key string, k kind) (*entry, error) {
	e := c.lookup(key)
	if e != nil && e.kind != k {
		return nil, kvdb.ErrWrongType
	}
	return e, nil
}

//---- Key Ops ----

func (c *Client) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key) != nil, nil
}

func (c *Client) Delete(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if c.lookup(k) != nil {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *Client) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lookup(key)
	if e == nil {
		return false, nil
	}
	if expiration <= 0 {
		delete(c.data, key)
		return true, nil
	}
	e.expireAt = c.Now().Add(expiration)
	return true, nil
}

//---- Single-value Ops ----

func (c *Client) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &entry{kind: kindString, str: fmt.Sprint(value)}
	if expiration > 0 {
		e.expireAt = c.Now().Add(expiration)
	}
	c.data[key] = e
	return nil
}

func (c *Client) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindString)
	if err != nil || e == nil {
		return "", false, err
	}
	return e.str, true, nil
}

//---- List Ops ----

func (c *Client) Push(_ context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindList)
	if err != nil {
		return err
	}
	if e == nil {
		e = &entry{kind: kindList}
		c.data[key] = e
	}
	e.list = append(e.list, value)
	return nil
}

func (c *Client) Len(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindList)
	if err != nil || e == nil {
		return 0, err
	}
	return int64(len(e.list)), nil
}

// bounds converts redis-style inclusive indexes into a half-open slice range
func bounds(n int, start, stop int64) (int, int, bool) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 {
		start = 0
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop) + 1, true
}

func (c *Client) Range(_ context.Context, key string, start int64, stop int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindList)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return []string{}, nil
	}
	from, to, ok := bounds(len(e.list), start, stop)
	if !ok {
		return []string{}, nil
	}
	return append([]string(nil), e.list[from:to]...), nil
}

func (c *Client) Remove(_ context.Context, key string, cnt int64, value any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindList)
	if err != nil || e == nil {
		return 0, err
	}
	target := fmt.Sprint(value)
	limit := cnt
	if limit < 0 {
		limit = -limit
	}
	var removed int64
	drop := make([]bool, len(e.list))
	if cnt >= 0 {
		for i := 0; i < len(e.list) && (limit == 0 || removed < limit); i++ {
			if e.list[i] == target {
				drop[i] = true
				removed++
			}
		}
	} else {
		for i := len(e.list) - 1; i >= 0 && removed < limit; i-- {
			if e.list[i] == target {
				drop[i] = true
				removed++
			}
		}
	}
	kept := e.list[:0]
	for i, v := range e.list {
		if !drop[i] {
			kept = append(kept, v)
		}
	}
	e.list = kept
	if len(e.list) == 0 {
		delete(c.data, key)
	}
	return removed, nil
}

func (c *Client) Trim(_ context.Context, key string, start int64, stop int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindList)
	if err != nil || e == nil {
		return err
	}
	from, to, ok := bounds(len(e.list), start, stop)
	if !ok {
		delete(c.data, key)
		return nil
	}
	e.list = append([]string(nil), e.list[from:to]...)
	return nil
}

//---- Hash Ops ----

func (c *Client) SetFields(_ context.Context, key string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindHash)
	if err != nil {
		return err
	}
	if e == nil {
		e = &entry{kind: kindHash, hash: make(map[string]string, len(fields))}
		c.data[key] = e
	}
	for f, v := range fields {
		e.hash[f] = fmt.Sprint(v)
	}
	return nil
}

func (c *Client) GetAllFields(_ context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.lookupKind(key, kindHash)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if e != nil {
		for f, v := range e.hash {
			out[f] = v
		}
	}
	return out, nil
}
