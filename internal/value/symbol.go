package value

import (
	"sync"

	"github.com/minio/highwayhash"
)

// hashKey is the 256-bit highwayhash key used to hash symbol text into
// interning-table buckets. It is fixed and process-wide: interning only
// needs a fast, well-distributed hash, not a keyed/secret one, so a
// constant key is fine (and keeps interning deterministic across runs,
// which is handy for golden-file tests of symbol=?/eqv? behavior).
var hashKey = [highwayhash.Size]byte{}

// internedSymbol is the single allocation shared by every Symbol value
// with a given name, so eqv?/symbol=? on symbols reduces to a pointer
// compare (§4.8).
type internedSymbol struct{ name string }

// SymbolTable deduplicates symbol text using a highwayhash digest to
// pick a bucket, then a short linear scan within the bucket to resolve
// hash collisions. Grounded on viant-linager's use of highwayhash for
// fast content hashing, repurposed here from hashing source files to
// hashing identifier text.
type SymbolTable struct {
	mu      sync.Mutex
	buckets map[uint64][]*internedSymbol
}

// NewSymbolTable returns an empty interning table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{buckets: make(map[uint64][]*internedSymbol)}
}

func (t *SymbolTable) intern(name string) *internedSymbol {
	h := highwayhash.Sum64([]byte(name), hashKey[:])
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.buckets[h] {
		if s.name == name {
			return s
		}
	}
	s := &internedSymbol{name: name}
	t.buckets[h] = append(t.buckets[h], s)
	return s
}

// Symbol is an interned identifier.
type Symbol struct {
	base
	sym *internedSymbol
}

// Symbol builds (or reuses) an interned Symbol value for name.
func (g *Generator) Symbol(t *SymbolTable, name string) *Symbol {
	return &Symbol{base{g.next()}, t.intern(name)}
}

func (*Symbol) Kind() Kind      { return KindSymbol }
func (v *Symbol) Name() string  { return v.sym.name }
func (v *Symbol) String() string { return v.sym.name }

// SameSymbol reports whether a and b name the same interned symbol —
// the pointer compare eqv?/symbol=? reduce to.
func SameSymbol(a, b *Symbol) bool { return a.sym == b.sym }
