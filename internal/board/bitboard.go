package board

import (
	"math/bits"
	"strings"
)

// TileSet is a 64-bit set of tiles. Bit n corresponds to Tile n.
type TileSet uint64

// TileSetOf returns a set holding the given tiles.
func TileSetOf(tiles ...Tile) TileSet {
	var s TileSet
	for _, t := range tiles {
		s = s.Add(t)
	}
	return s
}

// Add returns the set with t included.
func (s TileSet) Add(t Tile) TileSet {
	return s | 1<<uint(t)
}

// Remove returns the set with t excluded.
func (s TileSet) Remove(t Tile) TileSet {
	return s &^ (1 << uint(t))
}

// Has reports whether t is in the set.
func (s TileSet) Has(t Tile) bool {
	if !t.Valid() {
		return false
	}
	return s&(1<<uint(t)) != 0
}

// Count returns the number of tiles in the set.
func (s TileSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Tiles returns the members in ascending order.
func (s TileSet) Tiles() []Tile {
	out := make([]Tile, 0, s.Count())
	for s != 0 {
		out = append(out, Tile(bits.TrailingZeros64(uint64(s))))
		s &= s - 1
	}
	return out
}

// String renders the set as space-separated tile names.
func (s TileSet) String() string {
	var sb strings.Builder
	for i, t := range s.Tiles() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
