// Package optimistic applies status moves to the record store before the
// server confirms them and reconciles once it answers.
//
// A move is split into three steps so event-loop callers can run the network
// call off the loop:
//
//	t, err := c.Begin(id, to)     // store already shows `to`
//	err = c.Send(ctx, t)          // PATCH /apps/{id}/status, any goroutine
//	res := c.Resolve(t, err)      // back on the loop
//
// Every Begin takes the next value of a process-wide sequence and records it
// as the latest for that record. Resolve ignores a ticket whose sequence is no
// longer the latest, so a slow response can never overwrite a newer move.
package optimistic

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/logger"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/store"
)

// StatusUpdater sends a status change to the server.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status record.Status) (record.Record, error)
}

// ErrNoChange is returned by Begin when the record already has the target
// status and no move is pending for it. No request is needed.
var ErrNoChange = errors.New("status unchanged")

// Outcome is how a move ended.
type Outcome int

const (
	// Committed: the server accepted the latest move for the record.
	Committed Outcome = iota
	// Reverted: the latest move failed and the store shows the status it had
	// before that move.
	Reverted
	// Superseded: a newer move for the same record was issued; this result
	// was discarded.
	Superseded
	// Gone: the record no longer exists locally or on the server and was
	// dropped from the store instead of being reverted.
	Gone
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Reverted:
		return "reverted"
	case Superseded:
		return "superseded"
	case Gone:
		return "gone"
	default:
		return "unknown"
	}
}

// Ticket identifies one in-flight move.
type Ticket struct {
	ID   string
	Seq  uint64
	From record.Status
	To   record.Status
}

// Result is a resolved move. Err is set for Reverted and Gone.
type Result struct {
	Ticket
	Outcome Outcome
	Err     error
}

// Coordinator is safe for concurrent use. Moves on different records are
// independent.
type Coordinator struct {
	store   *store.Store
	updater StatusUpdater
	log     *zap.SugaredLogger

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

// New returns a Coordinator writing to st and sending through u.
func New(st *store.Store, u StatusUpdater) *Coordinator {
	return &Coordinator{
		store:   st,
		updater: u,
		log:     logger.Named("optimistic"),
		latest:  make(map[string]uint64),
	}
}

// Begin writes to into the store and returns the ticket for the move.
func (c *Coordinator) Begin(id string, to record.Status) (Ticket, error) {
	if !to.Known() {
		return Ticket{}, errors.Validationf("unknown status %q", to)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.store.Get(id)
	if !ok {
		return Ticket{}, errors.NotFoundf("application %s is not loaded", id)
	}
	_, pending := c.latest[id]
	if cur.Status == to && !pending {
		return Ticket{}, ErrNoChange
	}

	from, _ := c.store.SetStatus(id, to)
	c.seq++
	c.latest[id] = c.seq
	t := Ticket{ID: id, Seq: c.seq, From: from, To: to}
	c.log.Debugw("move started", "id", id, "seq", t.Seq, "from", from, "to", to)
	return t, nil
}

// Send performs the server call for t. It blocks; event-loop callers run it
// off the loop.
func (c *Coordinator) Send(ctx context.Context, t Ticket) error {
	_, err := c.updater.UpdateStatus(ctx, t.ID, t.To)
	return err
}

// Resolve reconciles the store with the server's answer for t.
func (c *Coordinator) Resolve(t Ticket, sendErr error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Ticket: t}
	if c.latest[t.ID] != t.Seq {
		res.Outcome = Superseded
		c.log.Debugw("move superseded", "id", t.ID, "seq", t.Seq, "latest", c.latest[t.ID])
		return res
	}
	delete(c.latest, t.ID)

	if sendErr == nil {
		res.Outcome = Committed
		// Server-computed fields such as updatedAt are picked up on the next read.
		c.store.Invalidate()
		c.log.Debugw("move committed", "id", t.ID, "seq", t.Seq, "status", t.To)
		return res
	}

	res.Err = errors.Wrapf(sendErr, "move %s to %s", t.ID, t.To)
	if errors.Is(sendErr, errors.ErrNotFound) {
		c.store.Remove(t.ID)
		res.Outcome = Gone
		c.log.Infow("moved record no longer exists", "id", t.ID, "seq", t.Seq)
		return res
	}
	if _, ok := c.store.SetStatus(t.ID, t.From); !ok {
		res.Outcome = Gone
		c.log.Infow("moved record removed while pending", "id", t.ID, "seq", t.Seq)
		return res
	}
	c.store.Invalidate()
	res.Outcome = Reverted
	c.log.Warnw("move reverted", "id", t.ID, "seq", t.Seq, "status", t.From, "error", sendErr)
	return res
}

// Move runs Begin, Send and Resolve in sequence.
func (c *Coordinator) Move(ctx context.Context, id string, to record.Status) (Result, error) {
	t, err := c.Begin(id, to)
	if err != nil {
		return Result{}, err
	}
	return c.Resolve(t, c.Send(ctx, t)), nil
}

// Pending reports whether a move for id is awaiting Resolve.
func (c *Coordinator) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.latest[id]
	return ok
}

// Started is the number of moves begun so far. A read issued when Started
// was n is older than every move begun after it.
func (c *Coordinator) Started() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// InFlight is the number of records with a pending move.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.latest)
}
