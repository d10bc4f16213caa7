// internal/services/lock_manager.go
package services

import (
	"sync"
	"sync/atomic"
	"time"
)

// LockManager hands out one RWMutex per scenario so concurrent requests on
// the same document serialize while different scenarios proceed in
// parallel. Idle locks are swept once the table grows large.
type LockManager struct {
	locks    map[string]*lockInfo
	tableMu  sync.RWMutex
	sweeper  *time.Ticker
}

type lockInfo struct {
	mu *sync.RWMutex
	// lastUsed holds unix nanos; it is touched on the read-locked fast
	// path, so it has to be atomic.
	lastUsed atomic.Int64
}

func (info *lockInfo) touch() {
	info.lastUsed.Store(time.Now().UnixNano())
}

// NewLockManager creates the manager and starts its sweep loop.
func NewLockManager() *LockManager {
	lm := &LockManager{locks: make(map[string]*lockInfo)}
	lm.startSweep()
	return lm
}

func (lm *LockManager) lockFor(scenarioID string) *sync.RWMutex {
	lm.tableMu.RLock()
	if info, ok := lm.locks[scenarioID]; ok {
		lm.tableMu.RUnlock()
		info.touch()
		return info.mu
	}
	lm.tableMu.RUnlock()

	lm.tableMu.Lock()
	defer lm.tableMu.Unlock()
	if info, ok := lm.locks[scenarioID]; ok {
		info.touch()
		return info.mu
	}
	info := &lockInfo{mu: &sync.RWMutex{}}
	info.touch()
	lm.locks[scenarioID] = info
	return info.mu
}

// WithWriteLock runs fn holding the scenario's write lock.
func (lm *LockManager) WithWriteLock(scenarioID string, fn func() error) error {
	mu := lm.lockFor(scenarioID)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// WithReadLock runs fn holding the scenario's read lock.
func (lm *LockManager) WithReadLock(scenarioID string, fn func() error) error {
	mu := lm.lockFor(scenarioID)
	mu.RLock()
	defer mu.RUnlock()
	return fn()
}

func (lm *LockManager) startSweep() {
	lm.sweeper = time.NewTicker(5 * time.Minute)
	go func() {
		for range lm.sweeper.C {
			lm.sweepIdleLocks()
		}
	}()
}

func (lm *LockManager) sweepIdleLocks() {
	const maxLocks = 200
	const idleTimeout = 30 * time.Minute

	lm.tableMu.Lock()
	defer lm.tableMu.Unlock()

	if len(lm.locks) <= maxLocks {
		return
	}
	cutoff := time.Now().Add(-idleTimeout).UnixNano()
	for id, info := range lm.locks {
		if info.lastUsed.Load() < cutoff {
			delete(lm.locks, id)
		}
	}
}
