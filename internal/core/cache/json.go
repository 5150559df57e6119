package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 在 GetOrLoad 之上做 JSON 编解码。
// 缓存里解不开的数据删掉后回源一次；load 出错不缓存
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	loadBytes := func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	var out T
	b, err := c.GetOrLoad(ctx, key, ttl, loadBytes)
	if err != nil {
		return out, err
	}
	if json.Unmarshal(b, &out) == nil {
		return out, nil
	}

	_ = c.RDB.Del(ctx, key).Err()
	var zero T
	b, err = c.GetOrLoad(ctx, key, ttl, loadBytes)
	if err != nil {
		return zero, err
	}
	if err := json.Unmarshal(b, &zero); err != nil {
		return zero, err
	}
	return zero, nil
}
