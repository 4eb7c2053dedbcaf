package client

import (
	"context"
	"time"

	"github.com/YushiOMOTE/redis-ac/pkg/resp"
)

// One-shot command wrappers. Each issues a single command on the connection
// and decodes the single reply; the connection stays with the caller.

func Ping(ctx context.Context, c Conn) error {
	v, err := c.Do(ctx, NewCommand("PING"))
	if err != nil {
		return err
	}
	_, err = resp.String(v)
	return err
}

func Get(ctx context.Context, c Conn, key string) (string, error) {
	v, err := c.Do(ctx, NewCommand("GET", key))
	if err != nil {
		return "", err
	}
	return resp.String(v)
}

func Set(ctx context.Context, c Conn, key, value string) error {
	v, err := c.Do(ctx, NewCommand("SET", key, value))
	if err != nil {
		return err
	}
	_, err = resp.String(v)
	return err
}

// SetEx sets key with an expiry rounded down to whole seconds.
func SetEx(ctx context.Context, c Conn, key, value string, expiry time.Duration) error {
	v, err := c.Do(ctx, NewCommand("SETEX", key, formatInt(int64(expiry/time.Second)), value))
	if err != nil {
		return err
	}
	_, err = resp.String(v)
	return err
}

func Del(ctx context.Context, c Conn, keys ...string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("DEL", keys...))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func Exists(ctx context.Context, c Conn, key string) (bool, error) {
	v, err := c.Do(ctx, NewCommand("EXISTS", key))
	if err != nil {
		return false, err
	}
	return resp.Bool(v)
}

func Expire(ctx context.Context, c Conn, key string, ttl time.Duration) (bool, error) {
	v, err := c.Do(ctx, NewCommand("EXPIRE", key, formatInt(int64(ttl/time.Second))))
	if err != nil {
		return false, err
	}
	return resp.Bool(v)
}

func TTL(ctx context.Context, c Conn, key string) (time.Duration, error) {
	v, err := c.Do(ctx, NewCommand("TTL", key))
	if err != nil {
		return 0, err
	}
	n, err := resp.Int(v)
	return time.Duration(n) * time.Second, err
}

func Incr(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("INCR", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func Decr(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("DECR", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func Append(ctx context.Context, c Conn, key, value string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("APPEND", key, value))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func StrLen(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("STRLEN", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func HSet(ctx context.Context, c Conn, key, field, value string) (bool, error) {
	v, err := c.Do(ctx, NewCommand("HSET", key, field, value))
	if err != nil {
		return false, err
	}
	return resp.Bool(v)
}

func HGet(ctx context.Context, c Conn, key, field string) (string, error) {
	v, err := c.Do(ctx, NewCommand("HGET", key, field))
	if err != nil {
		return "", err
	}
	return resp.String(v)
}

func HGetAll(ctx context.Context, c Conn, key string) (map[string]string, error) {
	v, err := c.Do(ctx, NewCommand("HGETALL", key))
	if err != nil {
		return nil, err
	}
	return resp.StringMap(v)
}

func HDel(ctx context.Context, c Conn, key string, fields ...string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("HDEL", append([]string{key}, fields...)...))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func HLen(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("HLEN", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func LPush(ctx context.Context, c Conn, key string, values ...string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("LPUSH", append([]string{key}, values...)...))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func RPush(ctx context.Context, c Conn, key string, values ...string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("RPUSH", append([]string{key}, values...)...))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func LPop(ctx context.Context, c Conn, key string) (string, error) {
	v, err := c.Do(ctx, NewCommand("LPOP", key))
	if err != nil {
		return "", err
	}
	return resp.String(v)
}

func RPop(ctx context.Context, c Conn, key string) (string, error) {
	v, err := c.Do(ctx, NewCommand("RPOP", key))
	if err != nil {
		return "", err
	}
	return resp.String(v)
}

func LLen(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("LLEN", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func LRange(ctx context.Context, c Conn, key string, start, stop int64) ([]string, error) {
	v, err := c.Do(ctx, NewCommand("LRANGE", key, formatInt(start), formatInt(stop)))
	if err != nil {
		return nil, err
	}
	return resp.Strings(v)
}

func SAdd(ctx context.Context, c Conn, key string, members ...string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("SADD", append([]string{key}, members...)...))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func SRem(ctx context.Context, c Conn, key string, members ...string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("SREM", append([]string{key}, members...)...))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func SMembers(ctx context.Context, c Conn, key string) ([]string, error) {
	v, err := c.Do(ctx, NewCommand("SMEMBERS", key))
	if err != nil {
		return nil, err
	}
	return resp.Strings(v)
}

func SCard(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("SCARD", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func SIsMember(ctx context.Context, c Conn, key, member string) (bool, error) {
	v, err := c.Do(ctx, NewCommand("SISMEMBER", key, member))
	if err != nil {
		return false, err
	}
	return resp.Bool(v)
}

func ZAdd(ctx context.Context, c Conn, key string, score float64, member string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("ZADD", key, formatFloat(score), member))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func ZScore(ctx context.Context, c Conn, key, member string) (float64, error) {
	v, err := c.Do(ctx, NewCommand("ZSCORE", key, member))
	if err != nil {
		return 0, err
	}
	return resp.Float64(v)
}

func ZCard(ctx context.Context, c Conn, key string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("ZCARD", key))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func ZRange(ctx context.Context, c Conn, key string, start, stop int64) ([]string, error) {
	v, err := c.Do(ctx, NewCommand("ZRANGE", key, formatInt(start), formatInt(stop)))
	if err != nil {
		return nil, err
	}
	return resp.Strings(v)
}

// Publish posts a message to a channel and returns the receiver count.
func Publish(ctx context.Context, c Conn, channel, message string) (int64, error) {
	v, err := c.Do(ctx, NewCommand("PUBLISH", channel, message))
	if err != nil {
		return 0, err
	}
	return resp.Int(v)
}

func FlushAll(ctx context.Context, c Conn) error {
	v, err := c.Do(ctx, NewCommand("FLUSHALL"))
	if err != nil {
		return err
	}
	_, err = resp.String(v)
	return err
}
