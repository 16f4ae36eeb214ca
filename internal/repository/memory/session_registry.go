package memory

import (
	"context"
	"sync"
	"time"

	"survey-bot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRegistry owns all in-memory conversation sessions. It is the sole
// synchronization boundary: Acquire hands out exclusive access to one
// session, so everything downstream can assume single-writer semantics.
//
// Sessions expire from the cache after the idle TTL; an expired session just
// means the user starts over, the draft rows persisted so far are unaffected.
type SessionRegistry struct {
	sessions *cache.Cache

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sem  chan struct{} // capacity 1; holding the token = holding the session
	refs int
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRegistry{
		sessions: cache.New(ttl, 10*time.Minute),
		locks:    make(map[string]*sessionLock),
	}
}

// Acquire returns the session for sessionID with exclusive access, creating
// an Idle session if none exists. It blocks while another event for the same
// session is in flight, bounded by ctx. The returned release func must be
// called exactly once, after Save or Remove.
func (r *SessionRegistry) Acquire(ctx context.Context, sessionID string, chatID int64) (*store.Session, func(), error) {
	r.mu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{sem: make(chan struct{}, 1)}
		r.locks[sessionID] = l
	}
	l.refs++
	r.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		r.unref(sessionID, l)
		return nil, nil, ctx.Err()
	}

	var sess *store.Session
	if x, found := r.sessions.Get(sessionID); found {
		sess = x.(*store.Session)
	} else {
		sess = &store.Session{
			ID:     sessionID,
			ChatID: chatID,
			State:  store.StateIdle,
		}
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		<-l.sem
		r.unref(sessionID, l)
	}
	return sess, release, nil
}

// Save persists the session back into the registry and refreshes its TTL.
// Must be called while holding the session's lock.
func (r *SessionRegistry) Save(sess *store.Session) {
	r.sessions.Set(sess.ID, sess, cache.DefaultExpiration)
}

// Remove deletes the session on a terminal transition. The next event for
// this session id starts a fresh Idle session.
func (r *SessionRegistry) Remove(sessionID string) {
	r.sessions.Delete(sessionID)
}

func (r *SessionRegistry) unref(sessionID string, l *sessionLock) {
	r.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, sessionID)
	}
	r.mu.Unlock()
}
