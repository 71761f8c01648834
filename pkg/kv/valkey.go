package kv

import (
	"context"

	"github.com/rs/zerolog/log"
	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyStore implements Store using Valkey.
type ValkeyStore struct {
	c valkey.Client
}

func NewValkey(addr, password string) (*ValkeyStore, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		opts.Username = "default"
		opts.Password = password
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &ValkeyStore{c: client}, nil
}

func (v *ValkeyStore) Get(ctx context.Context, key string) (string, bool) {
	res := v.c.Do(ctx, v.c.B().Get().Key(key).Build())
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) {
			log.Error().Err(err).Str("key", key).Msg("valkey get failed")
		}
		return "", false
	}
	str, err := res.ToString()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("valkey get failed")
		return "", false
	}
	return str, true
}

func (v *ValkeyStore) Set(ctx context.Context, key string, val string) error {
	res := v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).Build())
	return res.Error()
}

func (v *ValkeyStore) Delete(ctx context.Context, key string) error {
	res := v.c.Do(ctx, v.c.B().Del().Key(key).Build())
	return res.Error()
}

func (v *ValkeyStore) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	res := v.c.Do(ctx, v.c.B().Del().Key(keys...).Build())
	return res.Error()
}

func (v *ValkeyStore) Close() { v.c.Close() }
