package board

// Phase is the turn controller state.
type Phase uint8

const (
	AwaitingMove Phase = iota
	AwaitingPromotionChoice
	GameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case AwaitingMove:
		return "AwaitingMove"
	case AwaitingPromotionChoice:
		return "AwaitingPromotionChoice"
	case GameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Result describes how a game ended.
type Result uint8

const (
	Ongoing Result = iota
	Checkmate
	Stalemate
	Repetition
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case Repetition:
		return "Repetition"
	default:
		return "Ongoing"
	}
}

// RepetitionLimit is the number of consecutive move reversals that draws the game.
const RepetitionLimit = 6

// state holds the scalar game state. It is copied by value into undo records.
type state struct {
	turn        Team
	phase       Phase
	result      Result
	winner      Team
	promotion   Tile    // pawn awaiting a promotion choice
	lastMove    Move    // last move played by either side
	teamLast    [3]Move // last move played by each team
	repetitions int     // consecutive moves that reversed the mover's previous move
}

// Board is a chess board with its turn state and derived analysis.
type Board struct {
	squares [NumTiles]Piece
	st      state
	an      *analysis
}

// StartPlacement is the placement string of the initial position.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// StartFEN is the standard FEN of the initial position.
const StartFEN = StartPlacement + " w KQkq - 0 1"

// NewBoard creates a board set up for a new game.
func NewBoard() *Board {
	b := &Board{}
	b.SetupGame()
	return b
}

// SetupGame resets the board to the initial position with White to move.
func (b *Board) SetupGame() {
	if err := b.setPlacement(StartPlacement); err != nil {
		panic("board: invalid start placement: " + err.Error())
	}
	b.st = freshState(White)
	b.analyze()
	b.settle()
}

func freshState(turn Team) state {
	return state{
		turn:      turn,
		phase:     AwaitingMove,
		promotion: NoTile,
		lastMove:  NoMove,
		teamLast:  [3]Move{NoMove, NoMove, NoMove},
	}
}

// Piece returns the piece on a tile.
func (b *Board) Piece(t Tile) Piece {
	if !t.Valid() {
		return NoPiece
	}
	return b.squares[t]
}

// Squares returns a copy of the board array.
func (b *Board) Squares() [NumTiles]Piece {
	return b.squares
}

// Turn returns the team to move.
func (b *Board) Turn() Team {
	return b.st.turn
}

// Phase returns the turn controller state.
func (b *Board) Phase() Phase {
	return b.st.phase
}

// IsGameOver reports whether the game has ended.
func (b *Board) IsGameOver() bool {
	return b.st.phase == GameOver
}

// IsChoosingPromotion reports whether a pawn is waiting for a promotion choice.
func (b *Board) IsChoosingPromotion() bool {
	return b.st.phase == AwaitingPromotionChoice
}

// PromotionTile returns the tile of the pawn awaiting promotion, or NoTile.
func (b *Board) PromotionTile() Tile {
	return b.st.promotion
}

// Winner returns the winning team, or NoTeam for a draw or an unfinished game.
func (b *Board) Winner() Team {
	return b.st.winner
}

// Result returns how the game ended, or Ongoing.
func (b *Board) Result() Result {
	return b.st.result
}

// LastMove returns the last move played, or NoMove.
func (b *Board) LastMove() Move {
	return b.st.lastMove
}

// Repetitions returns the current count of consecutive move reversals.
func (b *Board) Repetitions() int {
	return b.st.repetitions
}

// KingTile returns the tile of a team's king, or NoTile.
func (b *Board) KingTile(team Team) Tile {
	return b.an.kings[team]
}

// InCheck reports whether a team's king is attacked.
func (b *Board) InCheck(team Team) bool {
	return b.an.inCheck[team]
}

// AttackSet returns the tiles attacked or protected by a team.
func (b *Board) AttackSet(team Team) TileSet {
	return b.an.attacks[team]
}

// MovesFrom returns the legal destinations of the piece on t. Only pieces
// of the side to move have fully filtered lists.
func (b *Board) MovesFrom(t Tile) []Tile {
	if !t.Valid() {
		return nil
	}
	return b.an.moves[t]
}

// LegalMoves returns every legal move of the side to move in tile order.
func (b *Board) LegalMoves() []Move {
	if b.st.phase != AwaitingMove {
		return nil
	}
	moves := make([]Move, 0, b.an.moveCount)
	for t := A8; t <= H1; t++ {
		if p := b.squares[t]; !p.IsReal() || p.Team != b.st.turn {
			continue
		}
		for _, to := range b.an.moves[t] {
			moves = append(moves, Move{From: t, To: to})
		}
	}
	return moves
}

// IsLegal reports whether m is currently legal for the side to move.
func (b *Board) IsLegal(m Move) bool {
	if b.st.phase != AwaitingMove || !m.IsValid() {
		return false
	}
	p := b.squares[m.From]
	return p.IsReal() && p.Team == b.st.turn && containsTile(b.an.moves[m.From], m.To)
}

// IsCapture reports whether m takes a piece, including en passant.
func (b *Board) IsCapture(m Move) bool {
	p, target := b.squares[m.From], b.squares[m.To]
	if target.IsReal() {
		return target.Team != p.Team
	}
	return p.Type == Pawn && target.IsGhost() && target.Team != p.Team
}

// CheckingPieces returns the pieces giving check to a team's king.
func (b *Board) CheckingPieces(team Team) []CheckingPiece {
	return b.an.checkers[team]
}

// PinnedPieces returns a team's pinned pieces.
func (b *Board) PinnedPieces(team Team) []PinnedPiece {
	return b.an.pins[team]
}

// KingXRay returns the tiles behind a team's king on a checking ray.
func (b *Board) KingXRay(team Team) TileSet {
	return b.an.kingXRay[team]
}

// Material returns the summed piece values of a team.
func (b *Board) Material(team Team) int {
	total := 0
	for _, p := range b.squares {
		if p.Team == team {
			total += p.Value()
		}
	}
	return total
}

// Ghost returns the tile of the en passant ghost, or NoTile.
func (b *Board) Ghost() Tile {
	for t := A8; t <= H1; t++ {
		if b.squares[t].IsGhost() {
			return t
		}
	}
	return NoTile
}

func containsTile(tiles []Tile, t Tile) bool {
	for _, x := range tiles {
		if x == t {
			return true
		}
	}
	return false
}
