package board

// Team is the side a piece belongs to.
type Team uint8

const (
	NoTeam Team = iota
	White
	Black
)

// Other returns the opposing team. NoTeam maps to itself.
func (t Team) Other() Team {
	switch t {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoTeam
	}
}

// String returns the team name.
func (t Team) String() string {
	switch t {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "None"
	}
}

// PieceType represents the kind of a piece.
type PieceType uint8

const (
	NoType PieceType = iota
	King
	Queen
	Bishop
	Knight
	Rook
	Pawn
	// EnPassantGhost marks the tile a pawn skipped over on a double push.
	EnPassantGhost

	numPieceTypes
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Rook:
		return "Rook"
	case Pawn:
		return "Pawn"
	case EnPassantGhost:
		return "EnPassant"
	default:
		return "None"
	}
}

// Char returns the placement character for the type (lowercase).
func (pt PieceType) Char() byte {
	chars := [numPieceTypes]byte{' ', 'k', 'q', 'b', 'n', 'r', 'p', 'e'}
	if pt >= numPieceTypes {
		return ' '
	}
	return chars[pt]
}

// PieceValue is the material value of each piece type in pawns.
var PieceValue = [numPieceTypes]int{
	King:   0,
	Queen:  9,
	Bishop: 3,
	Knight: 3,
	Rook:   5,
	Pawn:   1,
}

// Piece is a plain value stored in the board array. The zero value is NoPiece.
type Piece struct {
	Team  Team
	Type  PieceType
	Moved bool
}

// NoPiece is the empty-tile sentinel.
var NoPiece = Piece{}

// IsEmpty reports whether the tile holds nothing at all.
func (p Piece) IsEmpty() bool {
	return p.Type == NoType
}

// IsGhost reports whether p is an en passant ghost.
func (p Piece) IsGhost() bool {
	return p.Type == EnPassantGhost
}

// IsReal reports whether p is an actual piece: not empty and not a ghost.
func (p Piece) IsReal() bool {
	return p.Type != NoType && p.Type != EnPassantGhost
}

// Value returns the material value of the piece.
func (p Piece) Value() int {
	if p.Type >= numPieceTypes {
		return 0
	}
	return PieceValue[p.Type]
}

// Char returns the placement character: uppercase for white, lowercase for black.
func (p Piece) Char() byte {
	c := p.Type.Char()
	if p.Team == White && c != ' ' {
		c -= 'a' - 'A'
	}
	return c
}

// String returns the placement character as a string.
func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar converts a placement character to a Piece. Ghosts are
// written 'E' (white) and 'e' (black).
func PieceFromChar(c byte) (Piece, bool) {
	team := Black
	if c >= 'A' && c <= 'Z' {
		team = White
		c += 'a' - 'A'
	}
	var pt PieceType
	switch c {
	case 'k':
		pt = King
	case 'q':
		pt = Queen
	case 'b':
		pt = Bishop
	case 'n':
		pt = Knight
	case 'r':
		pt = Rook
	case 'p':
		pt = Pawn
	case 'e':
		pt = EnPassantGhost
	default:
		return NoPiece, false
	}
	return Piece{Team: team, Type: pt}, true
}
