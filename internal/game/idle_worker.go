package game

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/playpool/billiards/internal/config"
	"github.com/redis/go-redis/v9"
)

// StartIdleWorker closes sessions that have seen no input for
// SessionIdleSeconds. Deadlines live in the session_idle sorted set when
// Redis is available; otherwise the manager's own activity clock is swept.
func StartIdleWorker(ctx context.Context, rdb *redis.Client, cfg *config.Config) {
	if Manager == nil || cfg == nil {
		logger.Warn("manager or config missing; idle worker not started")
		return
	}

	logger.Info("idle worker started", "poll_seconds", cfg.IdleWorkerPollInterval, "idle_seconds", cfg.SessionIdleSeconds)
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.IdleWorkerPollInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("idle worker stopping")
				return
			case now := <-ticker.C:
				if rdb == nil {
					if n := Manager.ExpireIdle(ctx, now); n > 0 {
						logger.Info("closed idle sessions", "count", n)
					}
					continue
				}
				processIdleDeadlines(ctx, rdb, cfg, now)
			}
		}
	}()
}

// idleAction is what the worker does with one expired idle-set member.
type idleAction int

const (
	idleSkip       idleAction = iota // hosted elsewhere; leave it for that instance
	idleDrop                         // no instance holds activity for it any more
	idleReschedule                   // touched after the deadline was read
	idleExpire
)

// decideIdle picks the action for token given whether this instance hosts
// it and its last_active timestamp (ok is false when the key is gone).
func decideIdle(hosted bool, lastTs int64, ok bool, now time.Time, idleSeconds int) idleAction {
	if !hosted {
		if !ok {
			return idleDrop
		}
		return idleSkip
	}
	if ok && now.Unix()-lastTs < int64(idleSeconds) {
		return idleReschedule
	}
	return idleExpire
}

func processIdleDeadlines(ctx context.Context, rdb *redis.Client, cfg *config.Config, now time.Time) {
	members, err := rdb.ZRangeByScore(ctx, sessionIdleKey, &redis.ZRangeBy{Min: "-inf", Max: strconv.FormatInt(now.Unix(), 10)}).Result()
	if err != nil {
		logger.Error("failed to fetch idle deadlines", "err", err)
		return
	}

	for _, token := range members {
		_, hostErr := Manager.GetSession(token)
		last, getErr := rdb.Get(ctx, lastActiveKey(token)).Result()
		lastTs, parseErr := strconv.ParseInt(last, 10, 64)
		haveLast := getErr == nil && parseErr == nil

		action := decideIdle(hostErr == nil, lastTs, haveLast, now, cfg.SessionIdleSeconds)
		if action == idleSkip {
			continue
		}

		// only the instance that removes the member handles it
		if removed, _ := rdb.ZRem(ctx, sessionIdleKey, token).Result(); removed == 0 {
			continue
		}

		switch action {
		case idleDrop:
			logger.Debug("dropped orphaned idle deadline", "token", token)
		case idleReschedule:
			deadline := lastTs + int64(cfg.SessionIdleSeconds)
			rdb.ZAdd(ctx, sessionIdleKey, redis.Z{Score: float64(deadline), Member: token})
		case idleExpire:
			err := Manager.EndSession(ctx, token, StatusAbandoned)
			switch {
			case errors.Is(err, ErrSessionNotFound):
				logger.Debug("idle session already ended", "token", token)
			case err != nil:
				logger.Error("failed to close idle session", "token", token, "err", err)
			default:
				logger.Info("closed idle session", "token", token, "idle_seconds", now.Unix()-lastTs)
			}
		}
	}
}
