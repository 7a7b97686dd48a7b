package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	redisClient *redis.Client
	now         func() time.Time
}

func NewAuthService(redisClient *redis.Client) *Service {
	return &Service{
		redisClient: redisClient,
		now:         time.Now,
	}
}

// Logout revokes the token until it expires on its own.
func (as *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.New("token has no id, cannot revoke")
	}

	ttl := claims.ExpiresAt.Sub(as.now())
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}

	revokedKey := revokedKeyPrefix + claims.ID
	if err := as.redisClient.Set(ctx, revokedKey, claims.UserID, ttl).Err(); err != nil {
		return err
	}

	if err := as.redisClient.SAdd(ctx, revokedSetKey, claims.ID).Err(); err != nil {
		return err
	}

	return nil
}

// ScanAndClean removes the ids of expired revocations from the revoked tokens set.
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, revokedSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get revoked tokens: %s", err)
		return
	}

	tokenIDs := cmd.Val()
	if len(tokenIDs) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no revoked tokens")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d revoked tokens] start ...", len(tokenIDs))
	var toRemove []string
	for _, tokenID := range tokenIDs {
		existsCmd := as.redisClient.Exists(ctx, revokedKeyPrefix+tokenID)
		if err := existsCmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", tokenID, err)
			continue
		}
		if existsCmd.Val() == 0 {
			toRemove = append(toRemove, tokenID)
		}
	}

	for _, tokenID := range toRemove {
		if err := as.redisClient.SRem(ctx, revokedSetKey, tokenID).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", tokenID, err)
		}
	}
	log.Debugf("=> auth service, scan and clean done, removed %d", len(toRemove))
}
