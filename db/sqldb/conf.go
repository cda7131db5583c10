package sqldb

import "time"

type Conf struct {
	Type string `json:"type"` // sqlite, mysql, pgsql
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	PW   string `json:"pw"`
	DB   string `json:"db"`  // database name; file path for sqlite (":memory:" allowed)
	TZ   string `json:"tz"`  // Connection Timezone
	DSN  string `json:"dsn"` // To Overwrite Default DSN

	MaxOpenConns    int      `json:"max_open_conns"`
	ConnMaxLifetime Duration `json:"conn_max_lifetime"` // e.g. "3m"
}

// Duration is a time.Duration read from a JSON string like "3m"
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// MaxOpenConnsOr returns the configured pool size or def
func (c *Conf) MaxOpenConnsOr(def int) int {
	if c.MaxOpenConns > 0 {
		return c.MaxOpenConns
	}
	return def
}

// ConnMaxLifetimeOr returns the configured connection lifetime or def
func (c *Conf) ConnMaxLifetimeOr(def time.Duration) time.Duration {
	if c.ConnMaxLifetime > 0 {
		return time.Duration(c.ConnMaxLifetime)
	}
	return def
}
