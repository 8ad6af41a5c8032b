// Package notify receives notification intents from the timer core and
// delivers them, either right away or when their fire time arrives.
package notify

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sadopc/tickr/internal/timer"
)

// Notifier is the collaborator the host hands notification intents to.
type Notifier interface {
	Notify(n timer.Notification)
	Cancel(timerID string)
}

// Sink performs the actual delivery.
type Sink func(n timer.Notification)

// Center is a Notifier that delivers immediate notifications to a Sink and
// holds scheduled ones, at most one per timer, until Flush finds them due.
type Center struct {
	mu      sync.Mutex
	sink    Sink
	pending map[string]timer.Notification
	logger  *log.Logger
}

// NewCenter returns a Center delivering to sink.
func NewCenter(sink Sink, logger *log.Logger) *Center {
	if logger == nil {
		logger = log.Default()
	}
	return &Center{
		sink:    sink,
		pending: make(map[string]timer.Notification),
		logger:  logger,
	}
}

// Notify delivers n now if it is immediate, otherwise schedules it,
// replacing whatever was scheduled for the same timer.
func (c *Center) Notify(n timer.Notification) {
	if n.Immediate() {
		c.logger.Info("notify", "timer", n.TimerID, "title", n.Title, "body", n.Body)
		c.sink(n)
		return
	}
	c.mu.Lock()
	c.pending[n.TimerID] = n
	c.mu.Unlock()
	c.logger.Debug("notification armed", "timer", n.TimerID, "fire_at", *n.FireAtMs)
}

// Cancel drops the scheduled notification for timerID, if any.
func (c *Center) Cancel(timerID string) {
	c.mu.Lock()
	_, ok := c.pending[timerID]
	delete(c.pending, timerID)
	c.mu.Unlock()
	if ok {
		c.logger.Debug("notification cancelled", "timer", timerID)
	}
}

// Flush delivers and forgets every scheduled notification due at nowMs,
// earliest first. It returns how many were delivered.
func (c *Center) Flush(nowMs int64) int {
	c.mu.Lock()
	var due []timer.Notification
	for id, n := range c.pending {
		if *n.FireAtMs <= nowMs {
			due = append(due, n)
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()

	sortByFireTime(due)
	for _, n := range due {
		c.logger.Info("notify", "timer", n.TimerID, "title", n.Title, "body", n.Body, "scheduled", true)
		c.sink(n)
	}
	return len(due)
}

// Pending returns the scheduled notifications, earliest first.
func (c *Center) Pending() []timer.Notification {
	c.mu.Lock()
	out := make([]timer.Notification, 0, len(c.pending))
	for _, n := range c.pending {
		out = append(out, n)
	}
	c.mu.Unlock()
	sortByFireTime(out)
	return out
}

func sortByFireTime(ns []timer.Notification) {
	sort.Slice(ns, func(i, j int) bool {
		if *ns[i].FireAtMs != *ns[j].FireAtMs {
			return *ns[i].FireAtMs < *ns[j].FireAtMs
		}
		return ns[i].TimerID < ns[j].TimerID
	})
}
