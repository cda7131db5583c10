package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/db/kvdb"

	lowimpl "github.com/redis/go-redis/v9"
)

const KVType = "redis"

func init() {
	kvdb.RegisterFactory(KVType, func(conf *kvdb.Conf) (kvdb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

type Client struct {
	Conf *kvdb.Conf

	// implementation details, not exported
	internal *lowimpl.Client
}

// Ensure redis.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func (c *Client) Init() error {
	c.internal = lowimpl.NewClient(&lowimpl.Options{
		Addr:     c.Conf.Addr(),
		Password: c.Conf.PW,
		DB:       c.Conf.DB,
	})
	zap.L().Info("redis client initialized", zap.String("component", "kvdb"), zap.String("addr", c.Conf.Addr()))
	return nil
}

func (c *Client) Close() error {
	if c.internal == nil {
		return nil
	}
	return c.internal.Close()
}

func (c *Client) GetHandle() any {
	return c.internal
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

//--- Key Ops ----

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.internal.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	return c.internal.Del(ctx, keys...).Result()
}

func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	// false when the key does not exist
	return c.internal.Expire(ctx, key, expiration).Result()
}

//---- Single-value Ops ----

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.internal.Get(ctx, key).Result()
	if errors.Is(err, lowimpl.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrongType(err)
	}
	return val, true, nil
}

func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return c.internal.Set(ctx, key, value, expiration).Err()
}

//---- List Ops ----

func (c *Client) Push(ctx context.Context, key, value string) error {
	// tail (right)
	return wrongType(c.internal.RPush(ctx, key, value).Err())
}

func (c *Client) Len(ctx context.Context, key string) (int64, error) {
	n, err := c.internal.LLen(ctx, key).Result()
	return n, wrongType(err)
}

func (c *Client) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := c.internal.LRange(ctx, key, start, stop).Result()
	return vals, wrongType(err)
}

func (c *Client) Remove(ctx context.Context, key string, cnt int64, value any) (int64, error) {
	n, err := c.internal.LRem(ctx, key, cnt, value).Result()
	return n, wrongType(err)
}

func (c *Client) Trim(ctx context.Context, key string, start, stop int64) error {
	return wrongType(c.internal.LTrim(ctx, key, start, stop).Err())
}

//---- Hash Ops ----

func (c *Client) SetFields(ctx context.Context, key string, fields map[string]any) error {
	return wrongType(c.internal.HSet(ctx, key, fields).Err())
}

// GetAllFields returns an empty map, not an error, when the key is not found
func (c *Client) GetAllFields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := c.internal.HGetAll(ctx, key).Result()
	return fields, wrongType(err)
}

// wrongType maps the server's WRONGTYPE reply onto kvdb.ErrWrongType
func wrongType(err error) error {
	var redisErr lowimpl.Error
	if errors.As(err, &redisErr) && strings.HasPrefix(redisErr.Error(), "WRONGTYPE") {
		return errors.Join(kvdb.ErrWrongType, err)
	}
	return err
}
