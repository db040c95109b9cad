package engine

import (
	"math/bits"
	"sync/atomic"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const (
	bucketSize = 4
	dateCycle  = 32
)

// 16 bytes. A bucket of four entries fills one cache line.
type transEntry struct {
	key  uint64
	data uint64
}

// data layout: move 16 | score 16 | eval 16 | depth 7 | date 5 | bound 2 | pv 1 | exactCut 1
func packEntryData(move16 uint16, score, eval, depth, date, bound int, isPv, exactCut bool) uint64 {
	var data = uint64(move16) |
		uint64(uint16(int16(score)))<<16 |
		uint64(uint16(int16(eval)))<<32 |
		uint64(depth&127)<<48 |
		uint64(date&31)<<55 |
		uint64(bound&3)<<60
	if isPv {
		data |= 1 << 62
	}
	if exactCut {
		data |= 1 << 63
	}
	return data
}

type ttEntry struct {
	move16   uint16
	score    int
	eval     int
	depth    int
	bound    int
	isPv     bool
	exactCut bool
}

func unpackEntryData(data uint64) ttEntry {
	return ttEntry{
		move16:   uint16(data),
		score:    int(int16(data >> 16)),
		eval:     int(int16(data >> 32)),
		depth:    int(data >> 48 & 127),
		bound:    int(data >> 60 & 3),
		isPv:     data&(1<<62) != 0,
		exactCut: data&(1<<63) != 0,
	}
}

func entryDate(data uint64) int {
	return int(data >> 55 & 31)
}

func withDate(data uint64, date int) uint64 {
	return data&^(uint64(31)<<55) | uint64(date&31)<<55
}

type transTable struct {
	entries     []transEntry
	bucketCount uint64
	megabytes   int
	date        int
	fill        int32
}

func newTransTable(megabytes int) *transTable {
	var bucketCount = 1024 * 1024 * megabytes / (16 * bucketSize)
	if bucketCount < 1 {
		bucketCount = 1
	}
	return &transTable{
		megabytes:   megabytes,
		entries:     make([]transEntry, bucketCount*bucketSize),
		bucketCount: uint64(bucketCount),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) IncDate() {
	tt.date = (tt.date + 1) % dateCycle
	atomic.StoreInt32(&tt.fill, int32(tt.sampleFill()))
}

func (tt *transTable) Clear() {
	tt.date = 0
	atomic.StoreInt32(&tt.fill, 0)
	for i := range tt.entries {
		tt.entries[i] = transEntry{}
	}
}

// bucketIndex maps a key to the first entry of its bucket by the
// multiply-shift range reduction, no modulo needed.
func (tt *transTable) bucketIndex(key uint64) int {
	var hi, _ = bits.Mul64(key, tt.bucketCount)
	return int(hi) * bucketSize
}

func (tt *transTable) Prefetch(key uint64) {
	atomic.LoadUint64(&tt.entries[tt.bucketIndex(key)].key)
}

// Read verifies an entry by xoring the two words back together, so a
// torn write from another thread reads as a miss.
func (tt *transTable) Read(key uint64) (ttEntry, bool) {
	var index = tt.bucketIndex(key)
	for i := 0; i < bucketSize; i++ {
		var e = &tt.entries[index+i]
		var eKey = atomic.LoadUint64(&e.key)
		var eData = atomic.LoadUint64(&e.data)
		if eData != 0 && eKey^eData == key {
			if entryDate(eData) != tt.date {
				var refreshed = withDate(eData, tt.date)
				atomic.StoreUint64(&e.data, refreshed)
				atomic.StoreUint64(&e.key, key^refreshed)
			}
			return unpackEntryData(eData), true
		}
	}
	return ttEntry{}, false
}

func (tt *transTable) Update(key uint64, depth, score, eval, bound int, move16 uint16, isPv bool) {
	if depth <= 0 && !isPv {
		return
	}
	if atomic.LoadInt32(&tt.fill) >= 900 && depth <= 2 && bound != boundExact && !isPv {
		return
	}
	var index = tt.bucketIndex(key)
	var replaceIndex = index
	var replacePriority = 1 << 30
	for i := 0; i < bucketSize; i++ {
		var e = &tt.entries[index+i]
		var eKey = atomic.LoadUint64(&e.key)
		var eData = atomic.LoadUint64(&e.data)
		if eData == 0 {
			replaceIndex = index + i
			break
		}
		if eKey^eData == key {
			var old = unpackEntryData(eData)
			if !(depth >= old.depth-3 || bound == boundExact) {
				return
			}
			if move16 == 0 {
				move16 = old.move16
			}
			replaceIndex = index + i
			break
		}
		var priority = entryPriority(eData, tt.date)
		if priority < replacePriority {
			replacePriority = priority
			replaceIndex = index + i
		}
	}
	var data = packEntryData(move16, score, eval, depth, tt.date, bound, isPv, false)
	atomic.StoreUint64(&tt.entries[replaceIndex].data, data)
	atomic.StoreUint64(&tt.entries[replaceIndex].key, key^data)
}

func entryPriority(data uint64, date int) int {
	var priority = int(data >> 48 & 127)
	if data&(1<<62) != 0 {
		priority += 32
	}
	if int(data>>60&3) == boundExact {
		priority += 16
	}
	return priority - (dateCycle+date-entryDate(data))%dateCycle
}

// MarkExactCut flags the position as already being searched as a
// principal move, so other threads order it later at the root. The
// flag clears on the next regular store.
func (tt *transTable) MarkExactCut(key uint64) {
	var index = tt.bucketIndex(key)
	var replaceIndex = index
	var replacePriority = 1 << 30
	for i := 0; i < bucketSize; i++ {
		var e = &tt.entries[index+i]
		var eKey = atomic.LoadUint64(&e.key)
		var eData = atomic.LoadUint64(&e.data)
		if eData == 0 {
			replaceIndex = index + i
			break
		}
		if eKey^eData == key {
			var marked = eData | 1<<63
			atomic.StoreUint64(&e.data, marked)
			atomic.StoreUint64(&e.key, key^marked)
			return
		}
		var priority = entryPriority(eData, tt.date)
		if priority < replacePriority {
			replacePriority = priority
			replaceIndex = index + i
		}
	}
	var data = packEntryData(0, 0, 0, 0, tt.date, 0, false, true)
	atomic.StoreUint64(&tt.entries[replaceIndex].data, data)
	atomic.StoreUint64(&tt.entries[replaceIndex].key, key^data)
}

func (tt *transTable) Hashfull() int {
	var fill = tt.sampleFill()
	atomic.StoreInt32(&tt.fill, int32(fill))
	return fill
}

func (tt *transTable) sampleFill() int {
	var n = 1000
	if n > len(tt.entries) {
		n = len(tt.entries)
	}
	if n == 0 {
		return 0
	}
	var used = 0
	for i := 0; i < n; i++ {
		var data = atomic.LoadUint64(&tt.entries[i].data)
		if data != 0 && entryDate(data) == tt.date {
			used++
		}
	}
	return used * 1000 / n
}
