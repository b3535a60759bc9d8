package services

import (
	"sync"
)

// accountKey identifies one member's account within a guild.
type accountKey struct {
	guildID   int64
	discordID int64
}

// AccountLocks serializes mutating operations per (guild, user). Commands
// for the same account can interleave while one of them is suspended on a
// storage round-trip; holding the key's mutex across the whole
// read-check-write sequence keeps the invariants intact. Operations on
// different keys proceed independently.
//
// Mutexes are created on first use and kept for the process lifetime; the
// registry is bounded by the number of distinct accounts seen.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[accountKey]*sync.Mutex
}

// NewAccountLocks creates an empty lock registry.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{
		locks: make(map[accountKey]*sync.Mutex),
	}
}

func (l *AccountLocks) get(key accountKey) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for one account key and returns its unlock func.
func (l *AccountLocks) Lock(guildID, discordID int64) func() {
	m := l.get(accountKey{guildID: guildID, discordID: discordID})
	m.Lock()
	return m.Unlock
}

// LockPair acquires the mutexes for two account keys in the same guild in a
// deterministic order, so concurrent transfers between the same pair can
// never deadlock. Both keys must differ.
func (l *AccountLocks) LockPair(guildID, firstID, secondID int64) func() {
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first := l.get(accountKey{guildID: guildID, discordID: firstID})
	second := l.get(accountKey{guildID: guildID, discordID: secondID})

	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
