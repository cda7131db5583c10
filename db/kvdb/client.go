package kvdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

type Client interface {
	Init() error
	Close() error
	GetHandle() any // backend handle, use with a type assertion
	GetConf() *Conf

	//---- Key Ops ----

	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
	// Expire sets/updates expiration for a key
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) // found & updated, err

	//---- Single-value Ops ----

	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error) // val, found, err

	//---- List Ops ----

	Push(ctx context.Context, key string, value string) error
	Len(ctx context.Context, key string) (int64, error)
	Range(ctx context.Context, key string, start int64, stop int64) ([]string, error) // 0-basis, stop inclusive, negative from the tail
	Remove(ctx context.Context, key string, cnt int64, value any) (int64, error)      // cnt = removed dups. 0 = all
	Trim(ctx context.Context, key string, start int64, stop int64) error              // 0-basis, stop inclusive

	//---- Hash Ops ----

	SetFields(ctx context.Context, key string, fields map[string]any) error
	GetAllFields(ctx context.Context, key string) (map[string]string, error) // empty map if key not found
}

var ErrWrongType = errors.New("kvdb: operation against a key holding the wrong kind of value")

type ClientFactory func(conf *Conf) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ClientFactory{}
)

func RegisterFactory(kvType string, factory ClientFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kvType] = factory
}

// New builds an uninitialized client for conf.Type. Call Init before use.
func New(conf *Conf) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[conf.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported kv database type: %q (registered: %v)", conf.Type, Registered())
	}
	return factory(conf)
}

func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
