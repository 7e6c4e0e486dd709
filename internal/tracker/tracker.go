// Package tracker serves a live logic tracker over WebSocket. Clients send
// the items they hold and get back the locations currently in logic for
// their slot.
package tracker

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zyedidia/generic/mapset"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/ffxlogic/internal/config"
	"github.com/lawnchairsociety/ffxlogic/internal/logger"
	"github.com/lawnchairsociety/ffxlogic/internal/rules"
	"github.com/lawnchairsociety/ffxlogic/internal/world"
)

var (
	// ErrUnknownSlot is returned for a slot with no Final Fantasy X world.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrSlotRequired is returned when a request omits its slot and the
	// tracker serves more than one world.
	ErrSlotRequired = errors.New("slot required")

	// ErrUnauthorized is returned for a missing or wrong password.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when a client sends requests too quickly.
	ErrRateLimited = errors.New("too many requests")

	// ErrItemCount is returned for an item count outside 0..MaxItemCount.
	ErrItemCount = errors.New("invalid item count")
)

// MaxItemCount bounds the copies of one item a request may claim.
const MaxItemCount = 9999

// Request is one client message.
type Request struct {
	Password string `json:"password,omitempty"`

	// Slot selects the world. It may be omitted after the first request
	// or when the tracker serves a single world.
	Slot int `json:"slot,omitempty"`

	// Items maps item names to the number of copies held.
	Items map[string]int `json:"items"`

	// Checked names locations already collected; they are left out of
	// the reply.
	Checked []string `json:"checked,omitempty"`
}

// Update is the reply to a request.
type Update struct {
	Slot    int      `json:"slot"`
	Player  string   `json:"player"`
	InLogic []string `json:"in_logic"`
	Regions []string `json:"regions"`
	Goal    bool     `json:"goal"`
	Error   string   `json:"error,omitempty"`
}

// Tracker answers logic queries against a set of frozen worlds.
type Tracker struct {
	worlds  map[int]*world.World
	slots   []int
	cfg     config.TrackerConfig
	conns   *ConnLimiter
	proxies proxies
	auth    *AuthLimiter
	upgrade websocket.Upgrader
}

// New creates a tracker over worlds.
func New(worlds []*world.World, cfg config.TrackerConfig) *Tracker {
	t := &Tracker{
		worlds: make(map[int]*world.World, len(worlds)),
		cfg:    cfg,
		conns:  NewConnLimiter(cfg.MaxPerIP, cfg.MaxConnections),
		auth:   NewAuthLimiter(cfg.MaxAuthAttempts, cfg.LockoutSeconds, cfg.MaxLockoutSeconds),
	}
	for _, w := range worlds {
		t.worlds[w.Slot()] = w
		t.slots = append(t.slots, w.Slot())
	}
	sort.Ints(t.slots)

	prefixes, err := cfg.ProxyPrefixes()
	if err != nil {
		logger.Error("Ignoring tracker trusted proxies", "error", err)
	}
	t.proxies = prefixes

	t.upgrade = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := t.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Tracker connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return t
}

// Slots returns the served slots in order.
func (t *Tracker) Slots() []int {
	return t.slots
}

// Close stops background work.
func (t *Tracker) Close() {
	t.auth.Stop()
}

// Evaluate computes the update for a slot holding items. Events are swept
// so that event-gated locations count once their event is in logic.
func (t *Tracker) Evaluate(slot int, items map[string]int, checked []string) (*Update, error) {
	w, ok := t.worlds[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}

	s := w.NewState()
	for name, n := range items {
		if n < 0 || n > MaxItemCount {
			return nil, fmt.Errorf("%w: %q has %d copies", ErrItemCount, name, n)
		}
		item, err := w.Library().Item(name)
		if err != nil {
			return nil, err
		}
		s.CollectN(item, n)
	}
	s.Sweep(nil)

	done := mapset.New[string]()
	for _, name := range checked {
		done.Put(name)
	}
	inLogic := []string{}
	for _, name := range s.ReachableLocations() {
		if !done.Has(name) {
			inLogic = append(inLogic, name)
		}
	}

	return &Update{
		Slot:    slot,
		Player:  w.Name(),
		InLogic: inLogic,
		Regions: s.ReachableRegions(),
		Goal:    rules.Complete(s),
	}, nil
}

// ServeHTTP upgrades the request and serves tracker updates until the
// client disconnects.
func (t *Tracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := t.proxies.clientAddr(r)

	release, ok := t.conns.Acquire(clientIP)
	if !ok {
		logger.Warning("Tracker connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}
	defer release()

	conn, err := t.upgrade.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("Tracker upgrade failed", "error", err, "client_ip", clientIP)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(t.cfg.WebSocket.MaxMessageSize)
	logger.Info("Tracker client connected", "client_ip", clientIP)

	sess := &session{
		tracker: t,
		ip:      clientIP,
		authed:  t.cfg.PasswordHash == "",
		limit:   NewMessageLimiter(t.cfg.MaxMessages, time.Duration(t.cfg.MessageWindowSeconds)*time.Second),
	}
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Tracker read ended", "error", err, "client_ip", clientIP)
			}
			break
		}

		update, reqErr := sess.handle(&req)
		if reqErr != nil {
			update = &Update{Slot: req.Slot, Error: reqErr.Error()}
		}
		if err := conn.WriteJSON(update); err != nil {
			logger.Debug("Tracker write failed", "error", err, "client_ip", clientIP)
			break
		}
		if errors.Is(reqErr, ErrUnauthorized) && sess.locked() {
			break
		}
	}
	logger.Info("Tracker client disconnected", "client_ip", clientIP)
}

// session is one client connection's state.
type session struct {
	tracker *Tracker
	ip      string
	authed  bool
	slot    int
	limit   *MessageLimiter
}

func (s *session) handle(req *Request) (*Update, error) {
	if ok, wait := s.limit.Allow(); !ok {
		return nil, fmt.Errorf("%w: retry in %s", ErrRateLimited, wait.Round(time.Millisecond))
	}
	if !s.authed {
		if err := s.authenticate(req.Password); err != nil {
			return nil, err
		}
	}

	slot := req.Slot
	if slot == 0 {
		slot = s.slot
	}
	if slot == 0 {
		if len(s.tracker.slots) != 1 {
			return nil, ErrSlotRequired
		}
		slot = s.tracker.slots[0]
	}

	update, err := s.tracker.Evaluate(slot, req.Items, req.Checked)
	if err != nil {
		return nil, err
	}
	s.slot = slot
	return update, nil
}

func (s *session) authenticate(password string) error {
	limiter := s.tracker.auth
	if locked, remaining := limiter.IsLocked(s.ip); locked {
		return fmt.Errorf("%w: locked out for %s", ErrUnauthorized, remaining.Round(time.Second))
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.tracker.cfg.PasswordHash), []byte(password))
	if err != nil {
		if locked, d := limiter.RecordFailure(s.ip); locked {
			logger.Warning("Tracker client locked out", "client_ip", s.ip, "duration", d)
		}
		return ErrUnauthorized
	}

	limiter.RecordSuccess(s.ip)
	s.authed = true
	return nil
}

func (s *session) locked() bool {
	locked, _ := s.tracker.auth.IsLocked(s.ip)
	return locked
}
