package scan

import (
	"strconv"

	"github.com/YushiOMOTE/redis-ac/pkg/client"
)

// Factory builds the command for one page of a cursor enumeration. It must be
// pure: it is re-invoked for every page, so any fixed arguments (key, match
// pattern, count hint) are captured by value.
type Factory func(cursor uint64) *client.Command

// Keys enumerates the keyspace with SCAN. Empty match and zero count omit the
// MATCH and COUNT arguments.
func Keys(match string, count int64) Factory {
	return func(cursor uint64) *client.Command {
		return client.NewCommand("SCAN", pageArgs(nil, cursor, match, count)...)
	}
}

// HashFields enumerates a hash with HSCAN. Items alternate field, value.
func HashFields(key, match string, count int64) Factory {
	return func(cursor uint64) *client.Command {
		return client.NewCommand("HSCAN", pageArgs([]string{key}, cursor, match, count)...)
	}
}

// SetMembers enumerates a set with SSCAN.
func SetMembers(key, match string, count int64) Factory {
	return func(cursor uint64) *client.Command {
		return client.NewCommand("SSCAN", pageArgs([]string{key}, cursor, match, count)...)
	}
}

// SortedSetMembers enumerates a sorted set with ZSCAN. Items alternate
// member, score.
func SortedSetMembers(key, match string, count int64) Factory {
	return func(cursor uint64) *client.Command {
		return client.NewCommand("ZSCAN", pageArgs([]string{key}, cursor, match, count)...)
	}
}

func pageArgs(head []string, cursor uint64, match string, count int64) []string {
	args := append(head, strconv.FormatUint(cursor, 10))
	if match != "" {
		args = append(args, "MATCH", match)
	}
	if count > 0 {
		args = append(args, "COUNT", strconv.FormatInt(count, 10))
	}
	return args
}
