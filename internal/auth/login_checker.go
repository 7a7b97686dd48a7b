package auth

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const (
	revokedKeyPrefix = "workoutlog-revoked||"
	revokedSetKey    = "workoutlog-revoked-tokens"
)

// LoginChecker tells whether a (still valid) token was revoked by a logout.
type LoginChecker struct {
	redisClient *redis.Client
}

func NewLoginChecker(redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		redisClient: redisClient,
	}
}

func (c *LoginChecker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	cmd := c.redisClient.Exists(ctx, revokedKeyPrefix+tokenID)
	if err := cmd.Err(); err != nil {
		return false, err
	}
	return cmd.Val() > 0, nil
}
