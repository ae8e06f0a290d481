// Package board implements a tile-indexed chess board: move generation,
// check and pin analysis, and turn control.
package board

import "fmt"

// Tile is a board index 0-63, rank-major from the top-left corner.
// Tile 0 is a8, tile 7 is h8, tile 56 is a1 and tile 63 is h1.
type Tile int

// Tile constants for all 64 tiles.
const (
	A8 Tile = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

// NoTile marks the absence of a tile.
const NoTile Tile = -1

// NumTiles is the number of tiles on the board.
const NumTiles = 64

// NewTile returns the tile for a file (0=a .. 7=h) and rank (1..8).
func NewTile(file, rank int) Tile {
	if file < 0 || file > 7 || rank < 1 || rank > 8 {
		return NoTile
	}
	return Tile((8-rank)*8 + file)
}

// Row returns the row counted from the top of the board (0 = rank 8).
func (t Tile) Row() int {
	return int(t) / 8
}

// File returns the file of the tile (0=a .. 7=h).
func (t Tile) File() int {
	return int(t) % 8
}

// Rank returns the chess rank of the tile (1..8).
func (t Tile) Rank() int {
	return 8 - t.Row()
}

// Valid reports whether the tile lies on the board.
func (t Tile) Valid() bool {
	return t >= 0 && t < NumTiles
}

// String returns the algebraic name of the tile, e.g. "e4".
func (t Tile) String() string {
	if !t.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + t.File()), byte('0' + t.Rank())})
}

// ParseTile parses an algebraic tile name such as "e4".
func ParseTile(s string) (Tile, error) {
	if len(s) != 2 {
		return NoTile, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '0')
	t := NewTile(file, rank)
	if t == NoTile {
		return NoTile, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	return t, nil
}
