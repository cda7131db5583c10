package kvdb

import "fmt"

type Conf struct {
	Type string `json:"type"` // redis, memory
	Host string `json:"host"`
	Port int    `json:"port"`
	PW   string `json:"pw"`
	DB   int    `json:"db"` // optional db number e.g. redis

	KeyPrefix string `json:"key_prefix"` // namespaces every key, e.g. "ksdocs:"
}

func (c *Conf) Addr() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 6379
	}
	return fmt.Sprintf("%s:%d", host, port)
}
