package service

import (
    "fmt"
    "sync"
)

// slotLock serializes check-and-insert per (lab, date) within this process.
// The database transaction already serializes writers with row locks; this
// keyed mutex keeps concurrent requests from even entering competing
// transactions, so under in-process contention the loser fails the conflict
// check instead of a lock wait.
type slotLock struct {
    mu    sync.Mutex
    slots map[string]*slotEntry
}

type slotEntry struct {
    mu   sync.Mutex
    refs int
}

func newSlotLock() *slotLock {
    return &slotLock{slots: make(map[string]*slotEntry)}
}

// acquire locks the (labID, date) key and returns the release function.
// Entries are reference counted and removed when the last holder releases,
// so the map does not grow with every date ever booked.
func (l *slotLock) acquire(labID uint64, date string) func() {
    key := fmt.Sprintf("%d/%s", labID, date)

    l.mu.Lock()
    e, ok := l.slots[key]
    if !ok {
        e = &slotEntry{}
        l.slots[key] = e
    }
    e.refs++
    l.mu.Unlock()

    e.mu.Lock()
    return func() {
        e.mu.Unlock()
        l.mu.Lock()
        e.refs--
        if e.refs == 0 {
            delete(l.slots, key)
        }
        l.mu.Unlock()
    }
}
