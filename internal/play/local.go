// Package play runs a single-player table locally, behind either the
// desktop or the terminal front end.
package play

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playpool/billiards/internal/audio"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/game"
	"github.com/playpool/billiards/internal/models"
	"github.com/playpool/billiards/internal/storage"
)

var logger = log.WithPrefix("play")

// Local owns one session plus the score bookkeeping around it. Store and
// Audio are optional.
type Local struct {
	Profile config.Profile
	Player  string
	Store   *storage.Store
	Audio   *audio.Player

	session *game.Session
	shots   int
	saved   bool
	last    game.FrameResult
}

// NewLocal racks a table for player.
func NewLocal(profile config.Profile, player string, store *storage.Store, sound *audio.Player) (*Local, error) {
	s, err := game.NewSession(profile)
	if err != nil {
		return nil, err
	}
	if player == "" {
		player = "player"
	}
	return &Local{Profile: profile, Player: player, Store: store, Audio: sound, session: s}, nil
}

func (l *Local) Session() *game.Session { return l.session }

func (l *Local) Shots() int { return l.shots }

// Last returns the result of the most recent frame.
func (l *Local) Last() game.FrameResult { return l.last }

// Advance runs one frame and reacts to what happened in it.
func (l *Local) Advance(events []game.InputEvent) game.FrameResult {
	res := l.session.Frame(events)
	l.last = res

	if res.Shot {
		l.shots++
		if l.Audio != nil {
			l.Audio.Shot(res.Impulse.Magnitude() / l.Profile.Aim.MaxImpulse)
		}
		logger.Debug("shot", "ball", res.ShotBall, "impulse", res.Impulse)
	}
	for _, c := range res.Captures {
		if l.Audio != nil {
			if c.Cue {
				l.Audio.Scratch()
			} else {
				l.Audio.Pocket()
			}
		}
		logger.Debug("pocketed", "ball", c.Ball, "pocket", c.Pocket)
	}
	if res.Cleared && !l.saved {
		l.save(models.SessionCleared)
	}
	return res
}

// Status is a one-line hint for the HUD.
func (l *Local) Status() string {
	switch {
	case l.session.Cleared():
		return "Table cleared! r: rack again  q: quit"
	case l.session.Aim().State() == game.AimDragging:
		return "release to shoot"
	case !l.session.AllAtRest():
		return ""
	}
	return "drag from a ball to aim"
}

// Restart saves the current result if needed and racks a new table.
func (l *Local) Restart() error {
	l.finish(models.SessionClosed)
	s, err := game.NewSession(l.Profile)
	if err != nil {
		return err
	}
	l.session = s
	l.shots = 0
	l.saved = false
	l.last = game.FrameResult{}
	return nil
}

// Close saves a non-zero score and releases the table.
func (l *Local) Close() {
	l.finish(models.SessionClosed)
}

func (l *Local) finish(status string) {
	if !l.saved && l.session.Score().Value() > 0 {
		l.save(status)
	}
	l.session.Close()
}

func (l *Local) save(status string) {
	l.saved = true
	if l.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res := models.SessionResult{
		Status: status,
		Score:  l.session.Score().Value(),
		Shots:  l.shots,
		Frames: l.session.FrameCount(),
	}
	if _, err := l.Store.SaveLocalScore(ctx, l.Player, res); err != nil {
		logger.Error("failed to save score", "err", err)
		return
	}
	logger.Info("score saved", "player", l.Player, "score", res.Score, "shots", res.Shots)
}
