// Package game is the turn controller between the front end and the rules
// engine. It validates human input, drives the computer player and exposes
// the display state the renderer needs.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/engine"
)

// Mode selects who controls each team.
type Mode int

const (
	ModeHumanVsHuman Mode = iota
	ModeHumanVsComputer
	ModeComputerVsComputer
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeHumanVsHuman:
		return "hvh"
	case ModeHumanVsComputer:
		return "hvc"
	case ModeComputerVsComputer:
		return "cvc"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	for m := ModeHumanVsHuman; m <= ModeComputerVsComputer; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeHumanVsComputer, fmt.Errorf("unknown mode %q", s)
}

var (
	// ErrComputerTurn rejects human input while the computer is to move.
	ErrComputerTurn = errors.New("computer is to move")
	// ErrStaleResult rejects a search result for a position that has
	// since changed.
	ErrStaleResult = errors.New("search result is stale")
)

// Delta reports what a completed or paused move changed.
type Delta struct {
	Move             board.Move
	Piece            board.Piece
	Captured         bool
	Castled          bool
	PromotionPending bool
	Check            bool
	GameOver         bool
}

// Outcome describes a finished game.
type Outcome struct {
	Result   board.Result
	Winner   board.Team
	Mode     Mode
	Human    board.Team
	Moves    int
	Duration time.Duration
}

// Highlights is the display state derived from the board.
type Highlights struct {
	LastMove  board.Move
	Check     board.Tile    // king of the side to move when in check
	Attacked  board.TileSet // tiles the opponent of the side to move attacks
	BestMove  board.Move    // last hint from the computer
	Promotion board.Tile
}

// Game owns the board for one session. It is not safe for concurrent use;
// searches run on snapshots and report back through a channel that the
// owner drains with PollComputerMove.
type Game struct {
	board  *board.Board
	engine *engine.Engine
	logger zerolog.Logger

	mode  Mode
	human board.Team

	history []board.Move
	started time.Time

	// Search state
	pending  <-chan engine.Result
	cancel   context.CancelFunc
	askedAt  int
	bestMove board.Move

	// Called once when a game ends.
	OnGameOver func(Outcome)
}

// NewGame creates a game in the starting position. The human plays White
// against the computer until SetMode says otherwise.
func NewGame(eng *engine.Engine) *Game {
	return &Game{
		board:    board.NewBoard(),
		engine:   eng,
		logger:   log.With().Str("component", "game").Logger(),
		mode:     ModeHumanVsComputer,
		human:    board.White,
		started:  time.Now(),
		bestMove: board.NoMove,
	}
}

// SetLogger replaces the game logger.
func (g *Game) SetLogger(l zerolog.Logger) {
	g.logger = l
}

// SetMode sets who controls each team. human is ignored outside
// ModeHumanVsComputer.
func (g *Game) SetMode(mode Mode, human board.Team) {
	g.mode = mode
	if human == board.White || human == board.Black {
		g.human = human
	}
	g.logger.Info().Str("mode", mode.String()).Str("human", g.human.String()).Msg("mode set")
	g.startComputerIfDue()
}

// Mode returns the current mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// HumanTeam returns the team the human plays in ModeHumanVsComputer.
func (g *Game) HumanTeam() board.Team {
	return g.human
}

// Engine returns the engine driving the computer player.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Reset abandons any running search and starts a new game.
func (g *Game) Reset() {
	g.abandonSearch()
	g.board.SetupGame()
	g.history = nil
	g.bestMove = board.NoMove
	g.started = time.Now()
	g.logger.Info().Msg("new game")
	g.startComputerIfDue()
}

// LoadFEN abandons any running search and sets up the given position.
func (g *Game) LoadFEN(fen string) error {
	b, err := board.LoadFEN(fen)
	if err != nil {
		return err
	}
	g.abandonSearch()
	g.board = b
	g.history = nil
	g.bestMove = board.NoMove
	g.started = time.Now()
	g.startComputerIfDue()
	return nil
}

// Piece returns the piece on a tile.
func (g *Game) Piece(t board.Tile) board.Piece {
	return g.board.Piece(t)
}

// MovesFrom returns the legal destinations from a tile.
func (g *Game) MovesFrom(t board.Tile) []board.Tile {
	return g.board.MovesFrom(t)
}

// Snapshot returns the current board snapshot.
func (g *Game) Snapshot() board.Snapshot {
	return g.board.Snapshot()
}

// FEN returns the current position in FEN.
func (g *Game) FEN() string {
	return g.board.FEN()
}

// History returns the moves played so far.
func (g *Game) History() []board.Move {
	return append([]board.Move(nil), g.history...)
}

// CurrentTurn returns the side to move.
func (g *Game) CurrentTurn() board.Team {
	return g.board.Turn()
}

// IsGameOver reports whether the game has ended.
func (g *Game) IsGameOver() bool {
	return g.board.IsGameOver()
}

// IsChoosingPromotion reports whether a pawn waits for its promotion piece.
func (g *Game) IsChoosingPromotion() bool {
	return g.board.IsChoosingPromotion()
}

// Result returns how the game ended, or board.Ongoing.
func (g *Game) Result() board.Result {
	return g.board.Result()
}

// Winner returns the winning team, or board.NoTeam for a draw or an
// unfinished game.
func (g *Game) Winner() board.Team {
	return g.board.Winner()
}

// ResultText returns a one-line description of the finished game.
func (g *Game) ResultText() string {
	switch g.board.Result() {
	case board.Checkmate:
		return fmt.Sprintf("%s wins by checkmate", g.board.Winner())
	case board.Stalemate:
		return "Draw by stalemate"
	case board.Repetition:
		return "Draw by repetition"
	default:
		return ""
	}
}

// IsComputerTurn reports whether the computer controls the side to move.
func (g *Game) IsComputerTurn() bool {
	if g.board.IsGameOver() || g.board.IsChoosingPromotion() {
		return false
	}
	switch g.mode {
	case ModeComputerVsComputer:
		return true
	case ModeHumanVsComputer:
		return g.board.Turn() != g.human
	default:
		return false
	}
}

// IsThinking reports whether a search is running.
func (g *Game) IsThinking() bool {
	return g.pending != nil
}

// AttemptMove plays a human move and reports whether it was accepted.
func (g *Game) AttemptMove(start, end board.Tile) bool {
	if _, err := g.Play(start, end); err != nil {
		g.logger.Debug().Err(err).Int("from", int(start)).Int("to", int(end)).Msg("move rejected")
		return false
	}
	return true
}

// Play plays a human move and reports what it changed. A rejected move
// leaves the game unchanged.
func (g *Game) Play(start, end board.Tile) (Delta, error) {
	if g.IsComputerTurn() {
		return Delta{}, ErrComputerTurn
	}
	return g.move(start, end)
}

// Promote completes a pending human promotion.
func (g *Game) Promote(pt board.PieceType) error {
	if err := g.board.Promote(pt); err != nil {
		return err
	}
	g.logger.Info().Str("piece", pt.String()).Msg("promoted")
	g.afterTurn()
	return nil
}

// move validates and applies a move for either player.
func (g *Game) move(start, end board.Tile) (Delta, error) {
	m := board.NewMove(start, end)
	captured := start.Valid() && end.Valid() && g.board.IsCapture(m)
	if err := g.board.MovePiece(start, end); err != nil {
		return Delta{}, err
	}
	g.abandonSearch()
	g.history = append(g.history, m)
	g.bestMove = board.NoMove

	d := Delta{
		Move:             m,
		Piece:            g.board.Piece(end),
		Captured:         captured,
		PromotionPending: g.board.IsChoosingPromotion(),
	}
	d.Castled = d.Piece.Type == board.King && abs(int(end)-int(start)) == 2
	g.logger.Info().Str("move", m.String()).Str("piece", d.Piece.String()).Msg("move played")

	if d.PromotionPending {
		return d, nil
	}
	g.afterTurn()
	d.Check = g.board.InCheck(g.board.Turn())
	d.GameOver = g.board.IsGameOver()
	return d, nil
}

// afterTurn runs once per completed turn.
func (g *Game) afterTurn() {
	if g.board.IsGameOver() {
		g.finish()
		return
	}
	g.startComputerIfDue()
}

func (g *Game) finish() {
	out := Outcome{
		Result:   g.board.Result(),
		Winner:   g.board.Winner(),
		Mode:     g.mode,
		Human:    g.human,
		Moves:    len(g.history),
		Duration: time.Since(g.started),
	}
	g.logger.Info().
		Str("result", out.Result.String()).
		Str("winner", out.Winner.String()).
		Int("moves", out.Moves).
		Msg("game over")
	if g.OnGameOver != nil {
		g.OnGameOver(out)
	}
}

// RequestComputerMove starts a search on the current position. The result
// is delivered once on the returned channel; the owner either receives it
// and calls ApplyComputerMove, or calls PollComputerMove each frame. A
// result for a side the human controls is kept as a hint.
func (g *Game) RequestComputerMove() <-chan engine.Result {
	g.abandonSearch()
	g.askedAt = len(g.history)
	if g.board.IsGameOver() || g.board.IsChoosingPromotion() {
		out := make(chan engine.Result, 1)
		out <- engine.Result{Move: board.NoMove, Err: engine.ErrNoMoves}
		close(out)
		return out
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.pending = g.engine.Start(ctx, g.board.Snapshot())
	g.logger.Debug().Str("turn", g.board.Turn().String()).Int("ply", g.askedAt).Msg("search requested")
	return g.pending
}

// PollComputerMove applies a finished search without blocking. It reports
// whether a result was consumed.
func (g *Game) PollComputerMove() (Delta, bool, error) {
	if g.pending == nil {
		return Delta{}, false, nil
	}
	select {
	case res := <-g.pending:
		d, err := g.ApplyComputerMove(res)
		return d, true, err
	default:
		return Delta{}, false, nil
	}
}

// ApplyComputerMove plays a search result for the computer, promoting to a
// queen when needed. For a side the human controls the move is recorded as
// a hint instead. A failed search on the computer's turn falls back to the
// first legal move so the game never stalls.
func (g *Game) ApplyComputerMove(res engine.Result) (Delta, error) {
	asked := g.askedAt
	g.clearSearch()
	if asked != len(g.history) {
		return Delta{}, ErrStaleResult
	}
	if res.Err != nil || !g.board.IsLegal(res.Move) {
		if errors.Is(res.Err, engine.ErrNoMoves) || !g.IsComputerTurn() {
			g.logger.Warn().Err(res.Err).Msg("search failed")
			return Delta{}, res.Err
		}
		legal := g.board.LegalMoves()
		if len(legal) == 0 {
			return Delta{}, engine.ErrNoMoves
		}
		g.logger.Warn().Err(res.Err).Str("move", res.Move.String()).Str("fallback", legal[0].String()).Msg("unusable search result")
		res = engine.Result{Move: legal[0], Cancelled: true}
	}

	if !g.IsComputerTurn() {
		g.bestMove = res.Move
		g.logger.Debug().Str("hint", res.Move.String()).Msg("best move")
		return Delta{}, nil
	}

	g.logger.Info().
		Str("move", res.Move.String()).
		Str("score", engine.ScoreToString(res.Score)).
		Int("depth", res.Depth).
		Msg("computer move")
	d, err := g.move(res.Move.From, res.Move.To)
	if err != nil {
		return d, fmt.Errorf("apply computer move %s: %w", res.Move, err)
	}
	if d.PromotionPending {
		if err := g.board.Promote(board.Queen); err != nil {
			return d, err
		}
		d.PromotionPending = false
		d.Piece = g.board.Piece(res.Move.To)
		g.afterTurn()
		d.Check = g.board.InCheck(g.board.Turn())
		d.GameOver = g.board.IsGameOver()
	}
	return d, nil
}

// Highlights returns the display state for the current position.
func (g *Game) Highlights() Highlights {
	turn := g.board.Turn()
	h := Highlights{
		LastMove:  g.board.LastMove(),
		Check:     board.NoTile,
		Attacked:  g.board.AttackSet(turn.Other()),
		BestMove:  g.bestMove,
		Promotion: board.NoTile,
	}
	if g.board.InCheck(turn) {
		h.Check = g.board.KingTile(turn)
	}
	if g.board.IsChoosingPromotion() {
		h.Promotion = g.board.PromotionTile()
	}
	return h
}

// Close stops any running search and waits for it.
func (g *Game) Close() error {
	g.abandonSearch()
	if err := g.engine.Wait(); err != nil && !errors.Is(err, engine.ErrNoMoves) {
		return err
	}
	return nil
}

func (g *Game) startComputerIfDue() {
	if g.IsComputerTurn() && g.pending == nil {
		g.RequestComputerMove()
	}
}

func (g *Game) abandonSearch() {
	if g.pending == nil {
		return
	}
	g.engine.Stop()
	g.clearSearch()
}

func (g *Game) clearSearch() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.pending = nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
