package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 泛型 JSON 缓存；缓存里的值解不开（结构变了）时删掉重新回源
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	fill := func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	var out T
	b, err := c.GetOrLoad(ctx, key, ttl, fill)
	if err != nil {
		return out, err
	}
	if json.Unmarshal(b, &out) == nil {
		return out, nil
	}

	if err := c.Invalidate(ctx, key); err != nil {
		return out, err
	}
	out = *new(T)
	if b, err = c.GetOrLoad(ctx, key, ttl, fill); err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
