package compositor

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Id identifies a mounted component. It is a 64-bit non-zero value derived by
// hashing an arbitrary seed; equal seeds always produce equal ids, so a
// component can refer to itself or to children across frames without global
// coordination. Ids are compared by equality only.
//
// The zero value is reserved and never produced by NewID or With.
type Id uint64

// NewID creates an Id by hashing seed. Returns ErrInvalidID in the degenerate
// case the hash yields zero.
func NewID(seed any) (Id, error) {
	d := xxhash.New()
	writeSeed(d, seed)

	sum := d.Sum64()
	if sum == 0 {
		return 0, ErrInvalidID
	}
	return Id(sum), nil
}

// MustID is like NewID but panics on ErrInvalidID. Intended for static seeds
// known at component-authoring time.
func MustID(seed any) Id {
	id, err := NewID(seed)
	if err != nil {
		panic(fmt.Sprintf("compositor: id from seed %v: %v", seed, err))
	}
	return id
}

// With derives a child Id by chaining the hash of id with an extra seed.
// Derivation is deterministic: the same base and seed always yield the same
// child, and the chain order matters.
func (id Id) With(seed any) (Id, error) {
	d := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	_, _ = d.Write(buf[:])
	writeSeed(d, seed)

	sum := d.Sum64()
	if sum == 0 {
		return 0, ErrInvalidID
	}
	return Id(sum), nil
}

// MustWith is like With but panics on ErrInvalidID.
func (id Id) MustWith(seed any) Id {
	child, err := id.With(seed)
	if err != nil {
		panic(fmt.Sprintf("compositor: id derived from %v: %v", seed, err))
	}
	return child
}

// writeSeed feeds seed into the digest. Common scalar types get a fixed
// binary encoding so ids stay stable across architectures; everything else
// falls back to the fmt representation.
func writeSeed(d *xxhash.Digest, seed any) {
	var buf [8]byte

	switch s := seed.(type) {
	case string:
		_, _ = d.WriteString(s)
	case []byte:
		_, _ = d.Write(s)
	case Id:
		binary.LittleEndian.PutUint64(buf[:], uint64(s))
		_, _ = d.Write(buf[:])
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(s)))
		_, _ = d.Write(buf[:])
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(s))
		_, _ = d.Write(buf[:])
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], s)
		_, _ = d.Write(buf[:])
	case fmt.Stringer:
		_, _ = d.WriteString(s.String())
	default:
		_, _ = fmt.Fprintf(d, "%v", seed)
	}
}

// LayerId orders layers of components from back to front. Layers are totally
// ordered ascending; applications may interleave custom layers between the
// named tiers.
type LayerId int

// Named layer tiers, well separated so custom layers fit between them.
const (
	LayerBackground LayerId = -1_000
	LayerMiddle     LayerId = 0
	LayerForeground LayerId = 1_000
	LayerPopup      LayerId = 2_000
	LayerOverlay    LayerId = 5_000
	LayerTopmost    LayerId = 10_000
)
