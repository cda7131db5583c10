// Package db holds what the sql and kv client layers share.
package db

import "go.uber.org/zap"

type Closer interface {
	Close() error
}

// CloseClient closes c and logs the outcome under name. A nil c is a no-op.
func CloseClient(name string, c Closer) {
	if c == nil {
		zap.L().Info("nothing to close", zap.String("component", "db"), zap.String("client", name))
		return
	}
	if err := c.Close(); err != nil {
		zap.L().Warn("failed to close client", zap.String("component", "db"), zap.String("client", name), zap.Error(err))
		return
	}
	zap.L().Info("client closed", zap.String("component", "db"), zap.String("client", name))
}
