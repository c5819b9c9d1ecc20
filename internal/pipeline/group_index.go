package pipeline

import (
	"strconv"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

const (
	groupIndexLoadFactor  = 0.75
	groupIndexMinCapacity = 16
)

// groupIndex maps composite group keys to group ids using xxhash buckets.
type groupIndex struct {
	buckets [][]groupSlot
	size    int
}

type groupSlot struct {
	key string
	id  int
}

func newGroupIndex(estimate int) *groupIndex {
	capacity := groupIndexMinCapacity
	for float64(capacity)*groupIndexLoadFactor < float64(estimate) {
		capacity *= 2
	}
	return &groupIndex{buckets: make([][]groupSlot, capacity)}
}

func (gi *groupIndex) bucket(key string) int {
	//nolint:gosec // capacity is a positive power of two
	return int(xxhash.Sum64String(key) & uint64(len(gi.buckets)-1))
}

// lookup returns the id stored for key.
func (gi *groupIndex) lookup(key string) (int, bool) {
	for _, slot := range gi.buckets[gi.bucket(key)] {
		if slot.key == key {
			return slot.id, true
		}
	}
	return 0, false
}

// insert stores a new key. Callers check lookup first.
func (gi *groupIndex) insert(key string, id int) {
	if float64(gi.size+1) > float64(len(gi.buckets))*groupIndexLoadFactor {
		gi.grow()
	}
	b := gi.bucket(key)
	gi.buckets[b] = append(gi.buckets[b], groupSlot{key: key, id: id})
	gi.size++
}

func (gi *groupIndex) grow() {
	old := gi.buckets
	gi.buckets = make([][]groupSlot, len(old)*2)
	for _, bucket := range old {
		for _, slot := range bucket {
			b := gi.bucket(slot.key)
			gi.buckets[b] = append(gi.buckets[b], slot)
		}
	}
}

// compositeKey joins parts with length prefixes so no value can collide
// with a delimiter: ("a:b", "c") and ("a", "b:c") produce different keys.
func compositeKey(parts []string) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(strconv.Itoa(len(p)))
		sb.WriteByte(':')
		sb.WriteString(p)
	}
	return sb.String()
}
