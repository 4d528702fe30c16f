// Package gate holds newly connected players until they verify the shared
// key, rotates that key on a wall-clock schedule, and ranks how fast players
// verify. The host (game engine adapter) feeds lifecycle events in and
// receives chat, title, broadcast and disconnect callbacks through the
// Messenger interface.
package gate

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ivahaev/timer"

	"github.com/hotwindlibs/keyauth/internal/schedule"
	"github.com/hotwindlibs/keyauth/internal/secret"
	"github.com/hotwindlibs/keyauth/internal/session"
	"github.com/hotwindlibs/keyauth/internal/stats"
)

// AuthCommand is the command players verify with.
const AuthCommand = "key"

// welcomeDelay is how long after a successful verification the welcome
// title follows the success title.
const welcomeDelay = 3 * time.Second

// Messenger is how the gate talks back to the host. Implementations must be
// safe for concurrent use; the kick timer fires on its own goroutine.
type Messenger interface {
	Message(id, msg string)
	Title(id, title, subtitle string)
	Broadcast(msg string)
	Disconnect(id, reason string)
}

// Publisher writes the key artifact for out-of-band distribution.
type Publisher interface {
	Publish(key string, nextRotation time.Time) error
}

type Config struct {
	Key        string
	KickDelay  time.Duration
	AutoUpdate bool
	UpdateHour int // 0-23, local time
}

// Result describes the outcome of a key submission.
type Result struct {
	OK         bool
	Elapsed    time.Duration
	Percentile float64
}

// Gate is the authentication gate. Create one per server instance with New;
// there are no package-level singletons.
type Gate struct {
	mu           sync.RWMutex // guards key, nextRotation and the config fields below
	key          string
	nextRotation time.Time
	kickDelay    time.Duration
	autoUpdate   bool
	updateHour   int

	gen       secret.Generator
	sessions  *session.Registry
	times     *stats.Tracker
	publisher Publisher
	msg       Messenger
}

func New(conf Config, publisher Publisher, msg Messenger) *Gate {
	return &Gate{
		key:          conf.Key,
		nextRotation: schedule.NextRotation(conf.UpdateHour, time.Now()),
		kickDelay:    conf.KickDelay,
		autoUpdate:   conf.AutoUpdate,
		updateHour:   conf.UpdateHour,
		gen:          secret.NewGenerator(),
		sessions:     session.NewRegistry(),
		times:        stats.NewTracker(),
		publisher:    publisher,
		msg:          msg,
	}
}

// Connect registers a session, prompts it to verify, and arms the kick
// timer. The timer checks session state when it fires, so verifying or
// disconnecting in time implicitly cancels it.
func (g *Gate) Connect(id string, privileged bool) {
	g.sessions.Connect(id, privileged)

	delay := g.KickDelay()
	g.prompt(id, delay)

	kick := timer.AfterFunc(delay, func() {
		if _, connected := g.sessions.Get(id); !connected || g.sessions.IsAuthenticated(id) {
			return
		}
		g.msg.Disconnect(id, "verification timed out - get the current key and rejoin")
	})
	kick.Start()
}

// Disconnect removes all gate state for the session.
func (g *Gate) Disconnect(id string) {
	g.sessions.Disconnect(id)
}

func (g *Gate) prompt(id string, delay time.Duration) {
	g.msg.Message(id, "welcome!")
	g.msg.Message(id, "verify with /"+AuthCommand+" <key> to start playing")
	g.msg.Message(id, fmt.Sprintf("you have %d seconds to enter the key", int(delay.Seconds())))
	g.msg.Title(id, "verification required", "use /"+AuthCommand+" <key> before you can move")
}

// Submit checks a candidate against the current key. On a match the session
// is verified and its verification latency recorded and ranked. A mismatch
// only sends a message; retries are unlimited. That makes the key guessable
// by a patient client, which is accepted here: the key is a low-value,
// frequently rotated gate pass, and the join timeout bounds each attempt
// window anyway.
func (g *Gate) Submit(id, candidate string) Result {
	sess, ok := g.sessions.Get(id)
	if !ok {
		return Result{}
	}

	g.mu.RLock()
	key := g.key
	g.mu.RUnlock()

	if candidate != key {
		g.msg.Message(id, "wrong key!")
		g.msg.Message(id, "check the key and try again")
		return Result{}
	}

	elapsed := time.Since(sess.JoinTime)
	g.times.Record(elapsed)
	rank := g.times.PercentileRank(elapsed)
	g.sessions.MarkAuthenticated(id)

	g.msg.Title(id, "key accepted", fmt.Sprintf("%.2fs - faster than %.1f%% of players", elapsed.Seconds(), rank))
	g.msg.Message(id, "key accepted, welcome!")

	welcome := timer.AfterFunc(welcomeDelay, func() {
		if _, connected := g.sessions.Get(id); !connected {
			return
		}
		g.msg.Title(id, "welcome!", "enjoy the game")
	})
	welcome.Start()

	return Result{OK: true, Elapsed: elapsed, Percentile: rank}
}

// Tick polls the rotation schedule. On crossing the rotation instant it
// swaps in a fresh key, invalidates every non-privileged session, notifies
// players and republishes the artifact. The key pair is replaced under the
// write lock, so a concurrent Submit validates against either the old or the
// new key, never a torn pair.
func (g *Gate) Tick(now time.Time) {
	g.mu.Lock()
	if !g.autoUpdate || !schedule.Elapsed(g.nextRotation, now) {
		g.mu.Unlock()
		return
	}
	g.key = g.gen.Generate()
	g.nextRotation = schedule.NextRotation(g.updateHour, now)
	key, next, delay := g.key, g.nextRotation, g.kickDelay
	g.mu.Unlock()

	g.sessions.InvalidateAll()
	log.Printf("rotated key to %s, next rotation at %s", key, next.Format("2006-01-02 15:04:05"))

	g.msg.Broadcast("the server key was rotated!")
	g.msg.Broadcast("grab the new key from the key page and verify again.")
	g.sessions.ForEach(func(sess session.Session) {
		if sess.Privileged {
			return
		}
		g.msg.Message(sess.ID, "the key changed, please verify again!")
		g.prompt(sess.ID, delay)
	})

	// best-effort, off the session-processing path
	go g.Republish()
}

// Republish rewrites the key artifact with the current pair. Failures are
// logged and retried on the next periodic republish.
func (g *Gate) Republish() {
	g.mu.RLock()
	key, next := g.key, g.nextRotation
	g.mu.RUnlock()

	if err := g.publisher.Publish(key, next); err != nil {
		log.Println("could not publish key artifact:", err)
	}
}

// Reload swaps in a new configuration. The rotation instant is recomputed
// from the new hour and the artifact republished.
func (g *Gate) Reload(conf Config) {
	g.mu.Lock()
	g.key = conf.Key
	g.kickDelay = conf.KickDelay
	g.autoUpdate = conf.AutoUpdate
	g.updateHour = conf.UpdateHour
	g.nextRotation = schedule.NextRotation(conf.UpdateHour, time.Now())
	g.mu.Unlock()

	g.Republish()
}

// MovementGuard reports whether the session may change position.
func (g *Gate) MovementGuard(id string) bool {
	return g.sessions.IsAuthenticated(id)
}

// commandAllowList names the commands available before verification.
var commandAllowList = map[string]bool{
	AuthCommand: true,
	"quit":      true,
	"exit":      true,
	"keystats":  true,
	"keyinfo":   true,
}

// CommandGuard reports whether the session may run the command (name only,
// lowercase, without leading slash).
func (g *Gate) CommandGuard(id, command string) bool {
	if commandAllowList[command] {
		return true
	}
	return g.sessions.IsAuthenticated(id)
}

func (g *Gate) IsAuthenticated(id string) bool {
	return g.sessions.IsAuthenticated(id)
}

func (g *Gate) CurrentKey() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.key
}

func (g *Gate) NextRotation() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nextRotation
}

func (g *Gate) AutoUpdate() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.autoUpdate
}

func (g *Gate) KickDelay() time.Duration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.kickDelay
}

func (g *Gate) Stats() stats.Summary {
	return g.times.Summary()
}

func (g *Gate) ClearStats() {
	g.times.Clear()
}
