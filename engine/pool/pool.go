/*
 * rebolcore - Segregated-size pool allocator
 *
 * Copyright 2026, rebolcore contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package pool implements the segregated free-list allocator that backs
// series headers and series payloads (spec §4.1). It amortizes small
// allocations in bulk segments and hands the GC cheap node reuse.
package pool

import "os"

// Dedicated pool ids. Request routing for general payloads is by size,
// but series and graphic-object headers always go to a fixed pool.
const (
	SeriesHeader = iota
	GraphicHeader
	numFixedPools
)

// Node is an opaque handle to a pool-owned allocation.
type Node struct {
	buf   []byte
	pool  int
	freed bool
}

// Bytes returns the node's backing storage. Holding this past FreeNode
// is a use-after-free bug by construction.
func (n *Node) Bytes() []byte { return n.buf }

type freeEntry struct {
	n    *Node
	next *freeEntry
}

type sizePool struct {
	unit     int
	quantum  int // nodes per segment
	segments int
	free     *freeEntry
	// quarantine holds the most recently freed node so MakeNode never
	// hands out the very last node that was freed, widening the
	// use-after-free detection window by one generation.
	quarantine *freeEntry
}

// Allocator owns the fixed array of size pools plus the two dedicated
// header pools, and routes requests above the largest pool bucket to
// the system allocator directly.
type Allocator struct {
	sizes        []int // ascending unit sizes for the general pools
	general      []*sizePool
	fixed        [numFixedPools]*sizePool
	systemBytes  int
	alwaysMalloc bool
}

const maxPooled = 4096 // requests above this go straight to the system allocator

// New creates an allocator. alwaysMalloc, when true, bypasses every
// pool and serves every request straight from the Go allocator so
// external tools (race detector, memory sanitizers) see every
// allocation individually -- the debug-build escape hatch of §4.1.
func New(alwaysMalloc bool) *Allocator {
	a := &Allocator{
		sizes:        []int{16, 32, 64, 128, 256, 512, 1024, 2048, 4096},
		alwaysMalloc: alwaysMalloc,
	}
	a.general = make([]*sizePool, len(a.sizes))
	for i, sz := range a.sizes {
		a.general[i] = &sizePool{unit: sz, quantum: 64}
	}
	a.fixed[SeriesHeader] = &sizePool{unit: seriesHeaderUnit, quantum: 256}
	a.fixed[GraphicHeader] = &sizePool{unit: graphicHeaderUnit, quantum: 64}
	return a
}

// NewFromEnv mirrors main.go's pattern of reading a debug-only
// environment variable at startup (REBOLCORE_ALWAYS_MALLOC=1).
func NewFromEnv() *Allocator {
	return New(os.Getenv("REBOLCORE_ALWAYS_MALLOC") == "1")
}

// seriesHeaderUnit/graphicHeaderUnit are placeholders until the series
// package supplies its own header size via SetHeaderUnit; the series
// package calls this during package init so pool need not import
// series (which would create an import cycle).
var (
	seriesHeaderUnit  = 64
	graphicHeaderUnit = 32
)

// SetHeaderUnit lets the series package declare the true header size
// once, at init time, before any allocator is constructed.
func SetHeaderUnit(seriesUnit, graphicUnit int) {
	seriesHeaderUnit = seriesUnit
	graphicHeaderUnit = graphicUnit
}

func poolForSize(a *Allocator, size int) *sizePool {
	for _, p := range a.general {
		if size <= p.unit {
			return p
		}
	}
	return nil
}

func (p *sizePool) addSegment() {
	p.segments++
	for i := 0; i < p.quantum; i++ {
		n := &Node{buf: make([]byte, p.unit), pool: -1}
		p.free = &freeEntry{n: n, next: p.free}
	}
}

func (p *sizePool) pop() *Node {
	if p.free == nil {
		p.addSegment()
	}
	e := p.free
	p.free = e.next
	e.n.freed = false
	return e.n
}

func (p *sizePool) push(n *Node) {
	poison(n.buf)
	n.freed = true
	e := &freeEntry{n: n}
	if p.quarantine != nil {
		e.next = p.free
		p.free = p.quarantine
	}
	p.quarantine = e
}

func poison(buf []byte) {
	for i := range buf {
		buf[i] = 0xDD
	}
}

// roundSystemSize rounds a request above maxPooled to either a power
// of two (powerOfTwo true) or the next 2 KiB multiple, per §4.1.
func roundSystemSize(size int, powerOfTwo bool) int {
	if powerOfTwo {
		n := 1
		for n < size {
			n <<= 1
		}
		return n
	}
	const quantum = 2048
	return ((size + quantum - 1) / quantum) * quantum
}

// Get allocates a general-purpose payload of at least size bytes,
// routing to the smallest pool whose unit fits, or to the system
// allocator (rounded per roundSystemSize) above maxPooled.
func (a *Allocator) Get(size int, powerOfTwo bool) *Node {
	if !a.alwaysMalloc && size <= maxPooled {
		if p := poolForSize(a, size); p != nil {
			return p.pop()
		}
	}
	sz := roundSystemSize(size, powerOfTwo)
	a.systemBytes += sz
	return &Node{buf: make([]byte, sz), pool: -1}
}

// Put returns a general-purpose payload to its origin pool, or drops
// it for the Go GC to reclaim if it came from the system allocator.
func (a *Allocator) Put(n *Node, size int) {
	if n == nil {
		return
	}
	if !a.alwaysMalloc && size <= maxPooled {
		if p := poolForSize(a, size); p != nil {
			p.push(n)
			return
		}
	}
	a.systemBytes -= len(n.buf)
}

// MakeNode pops a node from one of the two dedicated header pools.
// Content is NOT zeroed; callers must initialize every field.
func (a *Allocator) MakeNode(poolID int) *Node {
	if a.alwaysMalloc {
		unit := seriesHeaderUnit
		if poolID == GraphicHeader {
			unit = graphicHeaderUnit
		}
		return &Node{buf: make([]byte, unit), pool: poolID}
	}
	n := a.fixed[poolID].pop()
	n.pool = poolID
	return n
}

// FreeNode returns a header node to its dedicated pool.
func (a *Allocator) FreeNode(poolID int, n *Node) {
	if n.freed {
		panic("pool: double free")
	}
	if a.alwaysMalloc {
		n.freed = true
		return
	}
	a.fixed[poolID].push(n)
}

// SystemBytes reports bytes served directly by the system allocator,
// bypassing every pool -- the accounting entry of §4.1.
func (a *Allocator) SystemBytes() int { return a.systemBytes }
