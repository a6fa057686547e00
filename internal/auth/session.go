package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "auth_session:%d"

func SetSession(rdb *redis.Client, studentID uint, token string, duration time.Duration) error {
	ctx := context.Background()
	key := fmt.Sprintf(sessionKeyFmt, studentID)
	return rdb.Set(ctx, key, token, duration).Err()
}

func GetSession(rdb *redis.Client, studentID uint) (string, error) {
	ctx := context.Background()
	key := fmt.Sprintf(sessionKeyFmt, studentID)
	return rdb.Get(ctx, key).Result()
}

func DeleteSession(rdb *redis.Client, studentID uint) error {
	ctx := context.Background()
	key := fmt.Sprintf(sessionKeyFmt, studentID)
	return rdb.Del(ctx, key).Err()
}

// OnlineStudentCount returns the number of students with active auth sessions.
func OnlineStudentCount(rdb *redis.Client) (int, error) {
	ctx := context.Background()
	var cursor uint64
	ids := make(map[string]struct{})
	for {
		keys, newCursor, err := rdb.Scan(ctx, cursor, "auth_session:*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			parts := strings.Split(key, ":")
			if len(parts) == 2 && parts[1] != "" {
				ids[parts[1]] = struct{}{}
			}
		}
		if newCursor == 0 {
			break
		}
		cursor = newCursor
	}
	return len(ids), nil
}
