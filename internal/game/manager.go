package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/models"
	"github.com/playpool/billiards/internal/render"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrTooManySessions = errors.New("too many active sessions")
)

// Redis keys and channels.
const (
	leaderboardKey     = "leaderboard"
	sessionIdleKey     = "session_idle"
	sessionEventsTopic = "session_events"
)

func sessionStateKey(token string) string { return "session:" + token + ":state" }
func lastActiveKey(token string) string   { return "last_active:" + token }

// Recorder persists session history. *storage.Store implements it.
type Recorder interface {
	CreateSession(ctx context.Context, token, player string) (int64, error)
	RecordShot(ctx context.Context, shot models.Shot) error
	RecordCapture(ctx context.Context, c models.Capture) error
	FinishSession(ctx context.Context, r models.SessionResult) error
	TopScores(ctx context.Context, limit int) ([]models.ScoreEntry, error)
}

// Broadcaster fans encoded messages out to the clients watching a session.
type Broadcaster interface {
	BroadcastToSession(token string, data []byte)
}

// ServerMessage is every non-frame message pushed to clients.
type ServerMessage struct {
	Type  string      `json:"type"`
	Token string      `json:"token,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// SessionOver is the payload of a session_over message.
type SessionOver struct {
	Status SessionStatus `json:"status"`
	Score  int           `json:"score"`
	Shots  int           `json:"shots"`
	Frames uint64        `json:"frames"`
}

// LiveSession is a hosted session: a Runner plus bookkeeping.
type LiveSession struct {
	Token     string    `json:"token"`
	Player    string    `json:"player"`
	DBID      int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`

	runner *Runner

	// set once the cleared table has handed off to EndSession
	clearing atomic.Bool

	mu           sync.RWMutex
	status       SessionStatus
	lastActivity time.Time
}

// markCleared reports whether this call is the first to see the table
// cleared.
func (ls *LiveSession) markCleared() bool {
	return ls.clearing.CompareAndSwap(false, true)
}

// Summary returns the runner snapshot.
func (ls *LiveSession) Summary() Summary {
	return ls.runner.Summary()
}

// Status returns the lifecycle state.
func (ls *LiveSession) Status() SessionStatus {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.status
}

// LastActivity returns the time of the latest input.
func (ls *LiveSession) LastActivity() time.Time {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.lastActivity
}

// SessionManager hosts every live session of this process.
type SessionManager struct {
	sessions    map[string]*LiveSession
	profile     config.Profile
	rdb         *redis.Client
	store       Recorder
	config      *config.Config
	broadcaster Broadcaster
	mu          sync.RWMutex
}

var (
	// Global session manager instance
	Manager *SessionManager
)

// InitializeManager initializes the global session manager. store and rdb
// may be nil.
func InitializeManager(store Recorder, rdb *redis.Client, cfg *config.Config, profile config.Profile) {
	Manager = NewSessionManager(store, rdb, cfg, profile)
}

func NewSessionManager(store Recorder, rdb *redis.Client, cfg *config.Config, profile config.Profile) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*LiveSession),
		profile:  profile,
		rdb:      rdb,
		store:    store,
		config:   cfg,
	}
}

// SetBroadcaster wires the transport that receives frames and events.
func (m *SessionManager) SetBroadcaster(b Broadcaster) {
	m.mu.Lock()
	m.broadcaster = b
	m.mu.Unlock()
}

func (m *SessionManager) getBroadcaster() Broadcaster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.broadcaster
}

// Profile returns the parameter set every new session uses.
func (m *SessionManager) Profile() config.Profile {
	return m.profile
}

// generateToken generates a secure random token
func generateToken(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// CreateSession racks a new table and starts its frame loop.
func (m *SessionManager) CreateSession(ctx context.Context, player string) (*LiveSession, error) {
	m.mu.RLock()
	count := len(m.sessions)
	m.mu.RUnlock()
	if m.config.MaxSessions > 0 && count >= m.config.MaxSessions {
		return nil, ErrTooManySessions
	}

	sess, err := NewSession(m.profile)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ls := &LiveSession{
		Token:        generateToken(12),
		Player:       player,
		CreatedAt:    now,
		status:       StatusActive,
		lastActivity: now,
	}

	if m.store != nil {
		id, err := m.store.CreateSession(ctx, ls.Token, player)
		if err != nil {
			sess.Close()
			return nil, fmt.Errorf("create session: %w", err)
		}
		ls.DBID = id
	}

	frames := render.NewFrameRenderer(func(data []byte) {
		if b := m.getBroadcaster(); b != nil {
			b.BroadcastToSession(ls.Token, data)
		}
	})
	frames.OnError = func(err error) {
		logger.Error("frame encode failed", "token", ls.Token, "err", err)
	}
	ls.runner = NewRunner(sess, m.config.FrameRate, frames, func(res FrameResult) {
		m.onFrame(ls, res)
	})

	m.mu.Lock()
	m.sessions[ls.Token] = ls
	m.mu.Unlock()

	ls.runner.Start(context.Background())
	m.Touch(ls.Token)
	if err := m.saveSessionToRedis(ls); err != nil {
		logger.Warn("failed to cache session", "token", ls.Token, "err", err)
	}

	logger.Info("session created", "token", ls.Token, "player", player, "frame_rate", m.config.FrameRate)
	return ls, nil
}

// GetSession looks up a live session.
func (m *SessionManager) GetSession(token string) (*LiveSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ls, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ls, nil
}

// ActiveCount returns the number of live sessions.
func (m *SessionManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Submit forwards pointer input to a session and marks it active.
func (m *SessionManager) Submit(token string, ev InputEvent) error {
	ls, err := m.GetSession(token)
	if err != nil {
		return err
	}
	if ls.Status().Terminal() {
		return ErrSessionClosed
	}
	if !ls.runner.Submit(ev) {
		logger.Warn("input dropped, queue full", "token", token)
	}
	m.Touch(token)
	return nil
}

// Redraw forces the next frame of a session to be broadcast.
func (m *SessionManager) Redraw(token string) error {
	ls, err := m.GetSession(token)
	if err != nil {
		return err
	}
	ls.runner.Redraw()
	return nil
}

// Touch records input activity and reschedules the idle deadline.
func (m *SessionManager) Touch(token string) {
	now := time.Now()
	if ls, err := m.GetSession(token); err == nil {
		ls.mu.Lock()
		ls.lastActivity = now
		ls.mu.Unlock()
	}

	if m.rdb == nil {
		return
	}
	ctx := context.Background()
	deadline := now.Add(time.Duration(m.config.SessionIdleSeconds) * time.Second).Unix()
	m.rdb.Set(ctx, lastActiveKey(token), strconv.FormatInt(now.Unix(), 10), time.Duration(m.config.SessionExpiryMinutes)*time.Minute)
	m.rdb.ZAdd(ctx, sessionIdleKey, redis.Z{Score: float64(deadline), Member: token})
}

// onFrame runs on the session's runner goroutine.
func (m *SessionManager) onFrame(ls *LiveSession, res FrameResult) {
	// Cleared stays set on every frame until the runner stops
	cleared := res.Cleared && ls.markCleared()
	if !res.Shot && len(res.Captures) == 0 && !cleared {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if res.Shot {
		m.broadcast(ls.Token, ServerMessage{Type: "shot", Data: map[string]interface{}{"ball": res.ShotBall, "impulse": res.Impulse, "frame": res.Frame}})
		if m.store != nil && ls.DBID != 0 {
			shot := models.Shot{SessionID: ls.DBID, Frame: int64(res.Frame), BallNumber: res.ShotBall, ImpulseX: res.Impulse.X, ImpulseY: res.Impulse.Y}
			if err := m.store.RecordShot(ctx, shot); err != nil {
				logger.Error("failed to record shot", "token", ls.Token, "err", err)
			}
		}
	}

	for _, c := range res.Captures {
		m.broadcast(ls.Token, ServerMessage{Type: "capture", Data: c})
		if m.store != nil && ls.DBID != 0 {
			rec := models.Capture{SessionID: ls.DBID, Frame: int64(res.Frame), BallNumber: c.Ball, PocketID: c.Pocket, Cue: c.Cue}
			if err := m.store.RecordCapture(ctx, rec); err != nil {
				logger.Error("failed to record capture", "token", ls.Token, "err", err)
			}
		}
	}

	if err := m.saveSessionToRedis(ls); err != nil {
		logger.Warn("failed to cache session", "token", ls.Token, "err", err)
	}

	if cleared {
		// EndSession waits for this goroutine to exit
		go func() {
			if err := m.EndSession(context.Background(), ls.Token, StatusCleared); err != nil && !errors.Is(err, ErrSessionNotFound) {
				logger.Error("failed to end cleared session", "token", ls.Token, "err", err)
			}
		}()
	}
}

func (m *SessionManager) broadcast(token string, msg ServerMessage) {
	b := m.getBroadcaster()
	if b == nil {
		return
	}
	msg.Token = token
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal message", "type", msg.Type, "err", err)
		return
	}
	b.BroadcastToSession(token, data)
}

// EndSession stops a session, records its result and announces it.
func (m *SessionManager) EndSession(ctx context.Context, token string, status SessionStatus) error {
	m.mu.Lock()
	ls, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	ls.mu.Lock()
	ls.status = status
	ls.mu.Unlock()

	ls.runner.Stop()
	sum := ls.runner.Summary()

	over := SessionOver{Status: status, Score: sum.Score, Shots: sum.Shots, Frames: sum.Frame}
	if m.store != nil && ls.DBID != 0 {
		res := models.SessionResult{SessionID: ls.DBID, Status: string(status), Score: sum.Score, Shots: sum.Shots, Frames: sum.Frame}
		if err := m.store.FinishSession(ctx, res); err != nil {
			logger.Error("failed to finish session", "token", token, "err", err)
		}
	}

	if m.rdb != nil {
		if sum.Score > 0 {
			m.rdb.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(sum.Score), Member: ls.Player + ":" + token})
		}
		m.rdb.ZRem(ctx, sessionIdleKey, token)
		m.rdb.Del(ctx, sessionStateKey(token), lastActiveKey(token))

		payload, _ := json.Marshal(ServerMessage{Type: "session_over", Token: token, Data: over})
		if n, err := m.rdb.Publish(ctx, sessionEventsTopic, payload).Result(); err != nil {
			logger.Error("publish session_over failed", "token", token, "err", err)
			m.broadcast(token, ServerMessage{Type: "session_over", Data: over})
		} else {
			logger.Debug("published session_over", "token", token, "subscribers", n)
		}
	} else {
		m.broadcast(token, ServerMessage{Type: "session_over", Data: over})
	}

	logger.Info("session ended", "token", token, "status", status, "score", sum.Score, "shots", sum.Shots)
	return nil
}

// ExpireIdle ends every session whose last input is older than the idle
// window. It returns the number of sessions ended.
func (m *SessionManager) ExpireIdle(ctx context.Context, now time.Time) int {
	window := time.Duration(m.config.SessionIdleSeconds) * time.Second

	m.mu.RLock()
	var stale []string
	for token, ls := range m.sessions {
		if now.Sub(ls.LastActivity()) >= window {
			stale = append(stale, token)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, token := range stale {
		if err := m.EndSession(ctx, token, StatusAbandoned); err == nil {
			n++
		}
	}
	return n
}

// Shutdown closes every live session.
func (m *SessionManager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	tokens := make([]string, 0, len(m.sessions))
	for token := range m.sessions {
		tokens = append(tokens, token)
	}
	m.mu.RUnlock()

	for _, token := range tokens {
		m.EndSession(ctx, token, StatusClosed)
	}
}

// Leaderboard returns the best finished sessions, from Redis when available
// and the database otherwise.
func (m *SessionManager) Leaderboard(ctx context.Context, limit int) ([]models.ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if m.rdb != nil {
		zs, err := m.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err == nil && len(zs) > 0 {
			entries := make([]models.ScoreEntry, 0, len(zs))
			for _, z := range zs {
				member, _ := z.Member.(string)
				player, token := splitLeaderboardMember(member)
				entries = append(entries, models.ScoreEntry{Token: token, PlayerName: player, Score: int(z.Score)})
			}
			return entries, nil
		}
		if err != nil {
			logger.Warn("leaderboard read from redis failed", "err", err)
		}
	}
	if m.store == nil {
		return []models.ScoreEntry{}, nil
	}
	return m.store.TopScores(ctx, limit)
}

// splitLeaderboardMember splits "<player>:<token>" at the last colon.
func splitLeaderboardMember(member string) (player, token string) {
	for i := len(member) - 1; i >= 0; i-- {
		if member[i] == ':' {
			return member[:i], member[i+1:]
		}
	}
	return "", member
}

// cachedSession is the Redis view of a session.
type cachedSession struct {
	Token     string    `json:"token"`
	Player    string    `json:"player"`
	Status    string    `json:"status"`
	Score     int       `json:"score"`
	Label     string    `json:"label"`
	Shots     int       `json:"shots"`
	Frame     uint64    `json:"frame"`
	BallsLeft int       `json:"balls_left"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// saveSessionToRedis persists the session summary to Redis
func (m *SessionManager) saveSessionToRedis(ls *LiveSession) error {
	if m.rdb == nil {
		return nil
	}
	sum := ls.runner.Summary()
	data, err := json.Marshal(cachedSession{
		Token:     ls.Token,
		Player:    ls.Player,
		Status:    string(ls.Status()),
		Score:     sum.Score,
		Label:     sum.Label,
		Shots:     sum.Shots,
		Frame:     sum.Frame,
		BallsLeft: sum.BallsLeft,
		CreatedAt: ls.CreatedAt,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	ttl := time.Duration(m.config.SessionExpiryMinutes) * time.Minute
	return m.rdb.SetEx(context.Background(), sessionStateKey(ls.Token), data, ttl).Err()
}

// LoadCachedSession reads the Redis view of a session hosted by any
// instance.
func (m *SessionManager) LoadCachedSession(ctx context.Context, token string) (map[string]interface{}, error) {
	if m.rdb == nil {
		return nil, ErrSessionNotFound
	}
	data, err := m.rdb.Get(ctx, sessionStateKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, err
	}
	return out, nil
}
