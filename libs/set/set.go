package set

// Package set includes two set implementations, both backed by maps that
// remember when each element was added, one of which is safe. Intended for
// tracking redelivered requests

import (
	"sync"
	"time"
)

// UnsafeTimedSet implements an unsafe map backed set recording insertion times
type UnsafeTimedSet struct {
	members map[string]time.Time
}

// NewUnsafeTimedSet creates a new UnsafeTimedSet
func NewUnsafeTimedSet() UnsafeTimedSet {
	return UnsafeTimedSet{members: map[string]time.Time{}}
}

// Cardinality returns the number of elements in the set
func (set *UnsafeTimedSet) Cardinality() (int, error) {
	return len(set.members), nil
}

// Contains returns true if the given item is in the set
func (set *UnsafeTimedSet) Contains(e string) (bool, error) {
	_, ok := set.members[e]
	return ok, nil
}

// Add a single element to the set, return true if newly added
func (set *UnsafeTimedSet) Add(e string) (bool, error) {
	r, err := set.Contains(e)
	if err != nil {
		panic(err)
	}
	if r {
		return false, err
	}
	set.members[e] = time.Now()
	return true, nil
}

// Remove a single element from the set, return true if it was present
func (set *UnsafeTimedSet) Remove(e string) (bool, error) {
	r, err := set.Contains(e)
	if err != nil {
		panic(err)
	}
	delete(set.members, e)
	return r, nil
}

// Prune removes all elements added before the cutoff, returning how many were removed
func (set *UnsafeTimedSet) Prune(cutoff time.Time) (int, error) {
	var removed int
	for e, added := range set.members {
		if added.Before(cutoff) {
			delete(set.members, e)
			removed++
		}
	}
	return removed, nil
}

// Close the underlying connection to the datastore
func (set *UnsafeTimedSet) Close() error {
	return nil
}

// TimedSet implements a safe map backed set recording insertion times
type TimedSet struct {
	u *UnsafeTimedSet
	sync.RWMutex
}

// NewTimedSet creates a new TimedSet
func NewTimedSet() TimedSet {
	tmp := NewUnsafeTimedSet()
	return TimedSet{u: &tmp}
}

// Cardinality returns the number of elements in the set
func (set *TimedSet) Cardinality() (int, error) {
	set.RLock()
	defer set.RUnlock()
	return set.u.Cardinality()
}

// Contains returns true if the given item is in the set
func (set *TimedSet) Contains(e string) (bool, error) {
	set.RLock()
	defer set.RUnlock()
	return set.u.Contains(e)
}

// Add a single element to the set, return true if newly added
func (set *TimedSet) Add(e string) (bool, error) {
	set.Lock()
	ret, err := set.u.Add(e)
	if err != nil {
		panic(err)
	}
	set.Unlock()
	return ret, nil
}

// Remove a single element from the set, return true if it was present
func (set *TimedSet) Remove(e string) (bool, error) {
	set.Lock()
	defer set.Unlock()
	return set.u.Remove(e)
}

// Prune removes all elements added before the cutoff, returning how many were removed
func (set *TimedSet) Prune(cutoff time.Time) (int, error) {
	set.Lock()
	defer set.Unlock()
	return set.u.Prune(cutoff)
}

// Close the underlying connection to the datastore
func (set *TimedSet) Close() error {
	return nil
}
