// Package stringpool implements the interned-string collaborator that
// string-typed column storages address by id. Strings are sharded by the
// BLAKE3 hash of their UTF-8 bytes, the same content-hashing approach the
// teacher repo uses for addressing blob content, repurposed here from
// content-addressed storage to in-memory string interning.
package stringpool

import (
	"sync"

	"github.com/zeebo/blake3"
)

// NullID is the reserved id representing SQL NULL in a string column.
const NullID uint32 = 0

const shardCount = 64

type shard struct {
	mu      sync.RWMutex
	byValue map[string]uint32
}

// Pool is an append-only interned string table. Strings are assigned ids
// in first-intern order; id 0 is reserved for NULL and is never returned
// by Intern.
type Pool struct {
	mu     sync.RWMutex
	values []string // index 0 is the empty placeholder for NullID
	shards [shardCount]*shard
}

// New returns an empty Pool.
func New() *Pool {
	p := &Pool{values: []string{""}}
	for i := range p.shards {
		p.shards[i] = &shard{byValue: make(map[string]uint32)}
	}
	return p
}

func (p *Pool) shardFor(s string) *shard {
	sum := blake3.Sum256([]byte(s))
	return p.shards[sum[0]%shardCount]
}

// Intern returns the id for s, assigning a new one if s has not been seen.
func (p *Pool) Intern(s string) uint32 {
	sh := p.shardFor(s)

	sh.mu.RLock()
	if id, ok := sh.byValue[s]; ok {
		sh.mu.RUnlock()
		return id
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if id, ok := sh.byValue[s]; ok {
		return id
	}

	p.mu.Lock()
	id := uint32(len(p.values))
	p.values = append(p.values, s)
	p.mu.Unlock()

	sh.byValue[s] = id
	return id
}

// Get resolves an id to its string view. It panics if id is out of range;
// callers must only pass ids previously returned by Intern or NullID.
func (p *Pool) Get(id uint32) string {
	if id == NullID {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values[id]
}

// Len returns the number of distinct interned strings, excluding NullID.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values) - 1
}

// Compare returns -1, 0, or 1 comparing the strings resolved by ida and
// idb, with NullID sorting strictly before every other id.
func (p *Pool) Compare(ida, idb uint32) int {
	if ida == idb {
		return 0
	}
	if ida == NullID {
		return -1
	}
	if idb == NullID {
		return 1
	}
	a, b := p.Get(ida), p.Get(idb)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
