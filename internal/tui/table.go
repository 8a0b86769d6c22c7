package tui

import (
	"sync"

	"github.com/lox/memori/internal/session"
)

// Table is a game the TUI can drive, either in process or over the
// network.
type Table interface {
	Select(index int) error
	Restart() error
	ToggleReveal() error
	Snapshot() session.Snapshot
	Updates() <-chan session.Update
	Close() error
}

// LocalTable adapts an in-process session to Table.
type LocalTable struct {
	sess    *session.Session
	updates chan session.Update
	mu      sync.Mutex
	closed  bool
}

// NewLocalTable wraps sess and starts forwarding its updates.
func NewLocalTable(sess *session.Session) *LocalTable {
	return newLocalTable(sess, 256)
}

func newLocalTable(sess *session.Session, buffer int) *LocalTable {
	t := &LocalTable{
		sess:    sess,
		updates: make(chan session.Update, buffer),
	}
	sess.Subscribe(t.publish)
	return t
}

func (t *LocalTable) Select(index int) error {
	if res := t.sess.Select(index); res.Ignored() {
		t.publish(session.Update{
			Snapshot: t.sess.Snapshot(),
			Event:    session.EventIgnored,
		})
	}
	return nil
}

func (t *LocalTable) Restart() error {
	return t.sess.Restart()
}

func (t *LocalTable) ToggleReveal() error {
	t.sess.ToggleReveal()
	return nil
}

func (t *LocalTable) Snapshot() session.Snapshot {
	return t.sess.Snapshot()
}

func (t *LocalTable) Updates() <-chan session.Update {
	return t.updates
}

// Close ends the session and closes Updates.
func (t *LocalTable) Close() error {
	t.sess.Close()

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.updates)
	}
	return nil
}

func (t *LocalTable) publish(u session.Update) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	for {
		select {
		case t.updates <- u:
			return
		default:
		}
		// consumer stalled: drop the oldest so the newest board always lands
		select {
		case <-t.updates:
		default:
		}
	}
}
