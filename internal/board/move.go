package board

import "fmt"

// Move is a (start, end) tile pair.
type Move struct {
	From Tile
	To   Tile
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoTile, To: NoTile}

// NewMove creates a move between two tiles.
func NewMove(from, to Tile) Move {
	return Move{From: from, To: to}
}

// Reverse returns the move going back the other way.
func (m Move) Reverse() Move {
	return Move{From: m.To, To: m.From}
}

// IsValid reports whether both ends lie on the board.
func (m Move) IsValid() bool {
	return m.From.Valid() && m.To.Valid()
}

// String returns the move in coordinate form, e.g. "e2e4".
func (m Move) String() string {
	if !m.IsValid() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses a coordinate move such as "e2e4". A trailing
// promotion letter is accepted and ignored.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseTile(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseTile(s[2:4])
	if err != nil {
		return NoMove, err
	}
	return Move{From: from, To: to}, nil
}

// castle describes one castling option for a team.
type castle struct {
	king, kingTo Tile
	rook, rookTo Tile
	empty        []Tile // must hold no piece
	safe         []Tile // must not be attacked
}

var castles = [3][]castle{
	White: {
		{king: E1, kingTo: G1, rook: H1, rookTo: F1, empty: []Tile{F1, G1}, safe: []Tile{F1, G1}},
		{king: E1, kingTo: C1, rook: A1, rookTo: D1, empty: []Tile{D1, C1, B1}, safe: []Tile{D1, C1}},
	},
	Black: {
		{king: E8, kingTo: G8, rook: H8, rookTo: F8, empty: []Tile{F8, G8}, safe: []Tile{F8, G8}},
		{king: E8, kingTo: C8, rook: A8, rookTo: D8, empty: []Tile{D8, C8, B8}, safe: []Tile{D8, C8}},
	},
}

// castleFor returns the castling option a king move performs, if any.
func castleFor(team Team, from, to Tile) (castle, bool) {
	for _, c := range castles[team] {
		if c.king == from && c.kingTo == to {
			return c, true
		}
	}
	return castle{}, false
}
