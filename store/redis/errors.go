package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNil key 不存在
	ErrNil = redis.Nil

	ErrInvalidConfig  = errors.New("redis: invalid configuration")
	ErrEmptyAddrs     = errors.New("redis: addrs cannot be empty")
	ErrInvalidTimeout = errors.New("redis: invalid timeout value")
)
