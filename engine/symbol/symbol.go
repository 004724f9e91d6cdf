/*
 * rebolcore - Symbol interning table
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

// Package symbol interns word spellings into process-lifetime stable
// IDs with case-insensitive canonical equivalence (spec §3.3, §4.4).
package symbol

import "strings"

// ID identifies one spelling of a word. IDs are never reused and
// never change meaning once assigned. Zero is the reserved "no
// symbol" value.
type ID uint32

// None is the reserved zero ID, never assigned to a real spelling.
const None ID = 0

type record struct {
	name      string
	canonical ID // self, if this record IS the canonical spelling
	alias     ID // next alias in the chain rooted at the canonical, 0 if last
}

// Table is the process-wide (or per-Engine, for test isolation)
// symbol table: a flat record array plus a hash index over the
// case-folded spelling, sized to the next prime >= 4x expected count.
type Table struct {
	records []record // records[0] reserved
	index   []ID      // hash index -> canonical record id, 0 = empty slot
}

// New creates an empty table with room for an initial capacity.
func New(expected int) *Table {
	t := &Table{
		records: make([]record, 1, expected+1), // slot 0 reserved
	}
	t.index = make([]ID, nextPrime(expected*4+7))
	return t
}

func nextPrime(n int) int {
	if n < 7 {
		n = 7
	}
	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		n += 2
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// hash and skip are two independent hashes of the case-folded bytes,
// used for the probe base and the probe stride respectively, so two
// different names rarely share both a start slot and a stride.
func hash(folded string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(folded); i++ {
		h ^= uint32(folded[i])
		h *= 16777619
	}
	return h
}

func skipHash(folded string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(folded); i++ {
		h = h*33 + uint32(folded[i])
	}
	return h
}

func fold(name string) string { return strings.ToLower(name) }

// Intern returns the stable ID for name, creating a new canonical
// record (if this is the first spelling of its case-insensitive
// family) or a new alias record (if an exact-spelling match isn't
// already in the canonical's alias chain) as needed. Interning the
// same exact spelling twice always returns the same ID.
func (t *Table) Intern(name string) ID {
	folded := fold(name)
	slot, canonicalID := t.probe(folded)

	if canonicalID == None {
		// Brand new case-insensitive family: this spelling becomes
		// its own canonical.
		id := t.append(name, None, None)
		t.records[id].canonical = id
		t.index[slot] = id
		t.maybeRehash()
		return id
	}

	// Walk the alias chain looking for this exact spelling.
	for id := canonicalID; id != None; id = t.records[id].alias {
		if t.records[id].name == name {
			return id
		}
	}

	// New spelling of an existing canonical family: append as alias,
	// linked at the head of the canonical's chain.
	head := t.records[canonicalID].alias
	id := t.append(name, canonicalID, head)
	t.records[canonicalID].alias = id
	return id
}

// Lookup returns the ID for name if it has already been interned,
// without creating a new record.
func (t *Table) Lookup(name string) (ID, bool) {
	folded := fold(name)
	_, canonicalID := t.probe(folded)
	if canonicalID == None {
		return None, false
	}
	for id := canonicalID; id != None; id = t.records[id].alias {
		if t.records[id].name == name {
			return id, true
		}
	}
	return None, false
}

// probe returns the index-table slot for folded's family and the
// canonical ID stored there (None if the family doesn't exist yet).
func (t *Table) probe(folded string) (slot int, canonicalID ID) {
	n := len(t.index)
	start := int(hash(folded) % uint32(n))
	step := int(skipHash(folded)%uint32(n-1)) + 1
	s := start
	for {
		id := t.index[s]
		if id == None {
			return s, None
		}
		if fold(t.records[id].name) == folded {
			return s, id
		}
		s = (s + step) % n
		if s == start {
			// index table is full; caller should have rehashed first.
			return s, None
		}
	}
}

func (t *Table) append(name string, canonical, alias ID) ID {
	id := ID(len(t.records))
	t.records = append(t.records, record{name: name, canonical: canonical, alias: alias})
	return id
}

func (t *Table) maybeRehash() {
	// Count distinct canonical families (records whose own id equals
	// their canonical field).
	canonicalCount := 0
	for id := 1; id < len(t.records); id++ {
		if t.records[id].canonical == ID(id) {
			canonicalCount++
		}
	}
	if canonicalCount*2 <= len(t.index) {
		return
	}
	t.index = make([]ID, nextPrime(canonicalCount*8))
	for id := 1; id < len(t.records); id++ {
		if t.records[id].canonical != ID(id) {
			continue
		}
		folded := fold(t.records[id].name)
		slot, existing := t.probe(folded)
		if existing != None {
			panic("symbol: rehash collided with existing canonical")
		}
		t.index[slot] = ID(id)
	}
}

// Name returns the exact spelling stored for id.
func (t *Table) Name(id ID) string {
	if id == None || int(id) >= len(t.records) {
		return ""
	}
	return t.records[id].name
}

// Canonical returns the canonical ID of id's case-insensitive family.
func (t *Table) Canonical(id ID) ID {
	if id == None || int(id) >= len(t.records) {
		return None
	}
	return t.records[id].canonical
}

// Equal reports whether a and b are the very same spelling.
func Equal(a, b ID) bool { return a == b }

// CaseEqual reports whether a and b belong to the same
// case-insensitive family.
func (t *Table) CaseEqual(a, b ID) bool {
	return t.Canonical(a) == t.Canonical(b) && t.Canonical(a) != None
}

// Len reports the number of interned spellings (including aliases).
func (t *Table) Len() int { return len(t.records) - 1 }
