package capture

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal correlates in-flight requests with their eventual responses.
//
// Capture sources often observe the request and the response as separate
// events; the Journal is the explicit table between them, keyed by a
// correlation id with an insert/remove lifecycle. Begin registers the
// request half, Complete attaches the response and removes the entry, and
// Abort removes an entry whose response will never arrive.
type Journal struct {
	mu      sync.Mutex
	pending map[string]*Record
}

// NewJournal creates an empty Journal.
func NewJournal() *Journal {
	return &Journal{pending: make(map[string]*Record)}
}

// Begin registers the request half of an exchange and returns its
// correlation id. A record without an ID is assigned one; a record whose
// ID collides with a pending entry replaces it (the earlier request is
// considered lost).
func (j *Journal) Begin(rec *Record) string {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending[rec.ID] = rec
	return rec.ID
}

// Complete attaches the response half to a pending request, removes the
// entry, and returns the completed record. The second return is false
// when no request with that id is pending.
func (j *Journal) Complete(id string, status int, headers map[string]string, body any) (*Record, bool) {
	j.mu.Lock()
	rec, ok := j.pending[id]
	if ok {
		delete(j.pending, id)
	}
	j.mu.Unlock()

	if !ok {
		return nil, false
	}
	rec.Status = status
	rec.ResponseHeaders = headers
	rec.ResponseBody = body
	rec.CompletedAt = time.Now()
	return rec, true
}

// Abort removes a pending request whose response will never arrive and
// returns it. The second return is false when the id is unknown.
func (j *Journal) Abort(id string) (*Record, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec, ok := j.pending[id]
	if ok {
		delete(j.pending, id)
	}
	return rec, ok
}

// Pending returns the number of requests awaiting a response.
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}
