package board

import (
	"fmt"
	"strings"
)

// Placement returns the piece placement field of the board. En passant
// ghosts are written 'E' (white) and 'e' (black); this extension is private
// to this package and is not valid standard FEN.
func (b *Board) Placement() string {
	return placementOf(&b.squares, true)
}

func placementOf(squares *[NumTiles]Piece, ghosts bool) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			p := squares[row*8+file]
			if p.IsEmpty() || (p.IsGhost() && !ghosts) {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// setPlacement replaces the piece array from a placement string. Moved
// flags are inferred: kings and rooks off their home tiles and pawns off
// their home row count as moved.
func (b *Board) setPlacement(placement string) error {
	var squares [NumTiles]Piece
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("invalid placement %q: need 8 rows, got %d", placement, len(rows))
	}
	kings := [3]int{}
	for row, s := range rows {
		file := 0
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := PieceFromChar(c)
			if !ok {
				return fmt.Errorf("invalid placement %q: bad piece %q", placement, c)
			}
			if file > 7 {
				return fmt.Errorf("invalid placement %q: row %d too long", placement, row+1)
			}
			t := Tile(row*8 + file)
			p.Moved = !onHomeTile(p, t)
			if p.Type == King {
				kings[p.Team]++
			}
			squares[t] = p
			file++
		}
		if file != 8 {
			return fmt.Errorf("invalid placement %q: row %d has %d files", placement, row+1, file)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("invalid placement %q: need one king per side", placement)
	}
	for t := A8; t <= H1; t++ {
		if g := squares[t]; g.IsGhost() && !ghostFits(&squares, t, g.Team) {
			return fmt.Errorf("invalid placement %q: stray en passant ghost on %s", placement, t)
		}
	}
	b.squares = squares
	return nil
}

func onHomeTile(p Piece, t Tile) bool {
	switch p.Type {
	case Pawn:
		return t.Row() == pawnHomeRow(p.Team)
	case King, Rook:
		for _, c := range castles[p.Team] {
			if (p.Type == King && t == c.king) || (p.Type == Rook && t == c.rook) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// LoadFEN creates a board from a FEN string. Only the placement field is
// required; it may contain ghost characters. The optional side, castling
// and en passant fields are honoured, clock fields are ignored.
func LoadFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid FEN: empty")
	}
	b := &Board{}
	if err := b.setPlacement(fields[0]); err != nil {
		return nil, err
	}

	turn := White
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			turn = Black
		default:
			return nil, fmt.Errorf("invalid side to move: %s", fields[1])
		}
	}
	if len(fields) > 2 {
		if err := b.applyCastling(fields[2]); err != nil {
			return nil, err
		}
	}
	if len(fields) > 3 && fields[3] != "-" {
		if err := b.placeGhost(fields[3]); err != nil {
			return nil, err
		}
	}

	b.st = freshState(turn)
	b.analyze()
	b.settle()
	return b, nil
}

// applyCastling marks kings and rooks moved unless the castling field
// grants the matching right.
func (b *Board) applyCastling(field string) error {
	rights := map[byte]bool{}
	if field != "-" {
		for i := 0; i < len(field); i++ {
			switch c := field[i]; c {
			case 'K', 'Q', 'k', 'q':
				rights[c] = true
			default:
				return fmt.Errorf("invalid castling rights: %s", field)
			}
		}
	}
	letters := [3][2]byte{White: {'K', 'Q'}, Black: {'k', 'q'}}
	for _, team := range []Team{White, Black} {
		anyRight := false
		for i, c := range castles[team] {
			right := rights[letters[team][i]]
			anyRight = anyRight || right
			if r := b.squares[c.rook]; r.Type == Rook && r.Team == team && !right {
				r.Moved = true
				b.squares[c.rook] = r
			}
		}
		home := castles[team][0].king
		if k := b.squares[home]; k.Type == King && k.Team == team && !anyRight {
			k.Moved = true
			b.squares[home] = k
		}
	}
	return nil
}

// placeGhost puts the ghost named by a FEN en passant field on the board.
func (b *Board) placeGhost(field string) error {
	t, err := ParseTile(field)
	if err != nil {
		return fmt.Errorf("invalid en passant square: %s", field)
	}
	team := White
	if t.Rank() == 6 {
		team = Black
	}
	if !b.squares[t].IsEmpty() || !ghostFits(&b.squares, t, team) {
		return fmt.Errorf("invalid en passant square: %s", field)
	}
	b.squares[t] = Piece{Team: team, Type: EnPassantGhost}
	return nil
}

// ghostFits reports whether a ghost of team may stand on t: it must be on
// the tile a double pawn push skipped, with that pawn right in front of it.
func ghostFits(squares *[NumTiles]Piece, t Tile, team Team) bool {
	switch {
	case team == White && t.Rank() == 3, team == Black && t.Rank() == 6:
	default:
		return false
	}
	owner := squares[ghostOwner(t, team)]
	return owner.Type == Pawn && owner.Team == team
}

// FEN returns the position in standard FEN. Ghosts become the en passant
// field and the clocks are written as "0 1".
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.WriteString(placementOf(&b.squares, false))
	if b.st.turn == Black {
		sb.WriteString(" b ")
	} else {
		sb.WriteString(" w ")
	}

	rights := ""
	letters := [3]string{White: "KQ", Black: "kq"}
	for _, team := range []Team{White, Black} {
		for i, c := range castles[team] {
			k, r := b.squares[c.king], b.squares[c.rook]
			if k.Type == King && k.Team == team && !k.Moved && r.Type == Rook && r.Team == team && !r.Moved {
				rights += letters[team][i : i+1]
			}
		}
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	ep := "-"
	if g := b.Ghost(); g != NoTile && b.squares[g].Team != b.st.turn {
		ep = g.String()
	}
	sb.WriteString(" " + ep + " 0 1")
	return sb.String()
}
