package http

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

const idempotencyHeader = "Idempotency-Key"

// idempotencyEntry is a recorded response. ready is closed once the first request finishes.
type idempotencyEntry struct {
	ready       chan struct{}
	status      int
	contentType string
	body        []byte
	expiresAt   time.Time
}

// idempotencyStore keeps POST responses in memory for replay
type idempotencyStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]*idempotencyEntry
	lastSweep time.Time
	now       func() time.Time
}

func newIdempotencyStore(ttl time.Duration) *idempotencyStore {
	return &idempotencyStore{
		ttl:     ttl,
		entries: make(map[string]*idempotencyEntry),
		now:     time.Now,
	}
}

// acquire returns the entry for key and whether the caller owns its execution
func (s *idempotencyStore) acquire(key string) (*idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > time.Minute {
		for k, e := range s.entries {
			if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	if e, ok := s.entries[key]; ok && (e.expiresAt.IsZero() || now.Before(e.expiresAt)) {
		return e, false
	}

	e := &idempotencyEntry{ready: make(chan struct{})}
	s.entries[key] = e
	return e, true
}

// complete records the response. Server errors are forgotten so a retry executes again.
func (s *idempotencyStore) complete(key string, e *idempotencyEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.status >= http.StatusInternalServerError {
		delete(s.entries, key)
	} else {
		e.expiresAt = s.now().Add(s.ttl)
	}
	close(e.ready)
}

// idempotent replays the recorded response for a repeated Idempotency-Key on the same route
func idempotent(store *idempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			scoped := r.Method + " " + r.URL.Path + " " + key

			entry, owner := store.acquire(scoped)
			if !owner {
				select {
				case <-entry.ready:
				case <-r.Context().Done():
					return
				}
				logging.From(r.Context()).Info("replaying idempotent response", "key", key, "status", entry.status)
				w.Header().Set("Idempotent-Replayed", "true")
				if entry.contentType != "" {
					w.Header().Set("Content-Type", entry.contentType)
				}
				w.WriteHeader(entry.status)
				_, _ = w.Write(entry.body)
				return
			}

			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)

			defer func() {
				if rec := recover(); rec != nil {
					entry.status = http.StatusInternalServerError
					store.complete(scoped, entry)
					panic(rec)
				}
				entry.status = ww.Status()
				if entry.status == 0 {
					entry.status = http.StatusOK
				}
				entry.contentType = ww.Header().Get("Content-Type")
				entry.body = buf.Bytes()
				store.complete(scoped, entry)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
