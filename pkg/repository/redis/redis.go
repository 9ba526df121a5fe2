package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

const defaultKeyPrefix = "dcrisk"

// Redis stores each preference list as a JSON array under <prefix>:preference:<user>:<key>
type Redis struct {
	client    *goredis.Client
	keyPrefix string
}

var _ interfaces.PreferenceRepository = &Redis{}

type Option func(*Redis)

// WithKeyPrefix overrides the key namespace
func WithKeyPrefix(prefix string) Option {
	return func(r *Redis) {
		r.keyPrefix = prefix
	}
}

// New connects to the server described by a redis:// or rediss:// URL and verifies it with PING
func New(ctx context.Context, url string, opts ...Option) (*Redis, error) {
	redisOpts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse redis URL")
	}

	r := &Redis{
		client:    goredis.NewClient(redisOpts),
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.client.Ping(ctx).Err(); err != nil {
		_ = r.client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", redisOpts.Addr))
	}
	return r, nil
}

func (r *Redis) key(userID types.UserID, key string) string {
	return fmt.Sprintf("%s:preference:%s:%s", r.keyPrefix, userID, key)
}

func (r *Redis) Get(ctx context.Context, userID types.UserID, key string) ([]string, error) {
	raw, err := r.client.Get(ctx, r.key(userID, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return []string{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, goerr.Wrap(err, "failed to decode preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func (r *Redis) Put(ctx context.Context, userID types.UserID, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return goerr.Wrap(err, "failed to encode preference")
	}

	// SET replaces the whole value, no expiry
	if err := r.client.Set(ctx, r.key(userID, key), raw, 0).Err(); err != nil {
		return goerr.Wrap(err, "failed to put preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
