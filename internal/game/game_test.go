package game

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/engine"
)

func newTestGame(t *testing.T, mode Mode, human board.Team) *Game {
	t.Helper()
	eng := engine.NewEngine(1)
	eng.SetLimits(engine.SearchLimits{Depth: 1})
	g := NewGame(eng)
	g.SetMode(mode, human)
	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return g
}

func waitComputer(t *testing.T, g *Game) Delta {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		d, ok, err := g.PollComputerMove()
		if err != nil {
			t.Fatalf("PollComputerMove: %v", err)
		}
		if ok {
			return d
		}
		if time.Now().After(deadline) {
			t.Fatal("Computer did not move in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func playAll(t *testing.T, g *Game, moves ...board.Move) {
	t.Helper()
	for _, m := range moves {
		if !g.AttemptMove(m.From, m.To) {
			t.Fatalf("AttemptMove(%s) rejected", m)
		}
	}
}

func mv(from, to board.Tile) board.Move {
	return board.NewMove(from, to)
}

func TestAttemptMove(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)

	if g.AttemptMove(board.E2, board.E5) {
		t.Error("e2e5 accepted")
	}
	if g.AttemptMove(board.E7, board.E5) {
		t.Error("Black moved on White's turn")
	}
	if g.AttemptMove(board.Tile(64), board.E4) {
		t.Error("Off-board start accepted")
	}
	if !g.AttemptMove(board.E2, board.E4) {
		t.Fatal("e2e4 rejected")
	}
	if g.CurrentTurn() != board.Black {
		t.Errorf("CurrentTurn = %s, want Black", g.CurrentTurn())
	}
	if diff := cmp.Diff([]board.Move{mv(board.E2, board.E4)}, g.History()); diff != "" {
		t.Errorf("History mismatch:\n%s", diff)
	}
}

func TestPlayDelta(t *testing.T) {
	t.Run("capture", func(t *testing.T) {
		g := newTestGame(t, ModeHumanVsHuman, board.White)
		playAll(t, g, mv(board.E2, board.E4), mv(board.D7, board.D5))
		d, err := g.Play(board.E4, board.D5)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		if !d.Captured || d.Castled || d.Check {
			t.Errorf("Unexpected delta %+v", d)
		}
	})

	t.Run("en passant", func(t *testing.T) {
		g := newTestGame(t, ModeHumanVsHuman, board.White)
		playAll(t, g, mv(board.E2, board.E4), mv(board.A7, board.A6), mv(board.E4, board.E5), mv(board.D7, board.D5))
		d, err := g.Play(board.E5, board.D6)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		if !d.Captured {
			t.Error("En passant not reported as a capture")
		}
		if !g.Piece(board.D5).IsEmpty() {
			t.Errorf("Captured pawn still on d5: %+v", g.Piece(board.D5))
		}
	})

	t.Run("castle", func(t *testing.T) {
		g := newTestGame(t, ModeHumanVsHuman, board.White)
		if err := g.LoadFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"); err != nil {
			t.Fatal(err)
		}
		d, err := g.Play(board.E1, board.G1)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		if !d.Castled || d.Piece.Type != board.King {
			t.Errorf("Unexpected delta %+v", d)
		}
		if g.Piece(board.F1).Type != board.Rook {
			t.Errorf("Rook not on f1: %+v", g.Piece(board.F1))
		}
	})

	t.Run("rejected", func(t *testing.T) {
		g := newTestGame(t, ModeHumanVsHuman, board.White)
		before := g.Snapshot()
		_, err := g.Play(board.E1, board.E2)
		if !errors.Is(err, board.ErrOwnPieceCapture) {
			t.Errorf("Play(e1e2) error = %v, want %v", err, board.ErrOwnPieceCapture)
		}
		if diff := cmp.Diff(before, g.Snapshot()); diff != "" {
			t.Errorf("Rejected move changed the game:\n%s", diff)
		}
	})
}

func TestHumanPromotion(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	if err := g.LoadFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1"); err != nil {
		t.Fatal(err)
	}

	d, err := g.Play(board.A7, board.A8)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !d.PromotionPending || !g.IsChoosingPromotion() {
		t.Fatal("Expected promotion choice")
	}
	if g.Highlights().Promotion != board.A8 {
		t.Errorf("Highlights().Promotion = %s, want a8", g.Highlights().Promotion)
	}
	if g.AttemptMove(board.H7, board.H6) {
		t.Error("Move accepted while choosing promotion")
	}
	if err := g.Promote(board.King); !errors.Is(err, board.ErrInvalidPromotion) {
		t.Errorf("Promote(King) error = %v, want %v", err, board.ErrInvalidPromotion)
	}
	if err := g.Promote(board.Knight); err != nil {
		t.Fatalf("Promote(Knight): %v", err)
	}
	if p := g.Piece(board.A8); p.Type != board.Knight || p.Team != board.White {
		t.Errorf("a8 = %+v, want white knight", p)
	}
	if g.CurrentTurn() != board.Black {
		t.Errorf("CurrentTurn = %s, want Black", g.CurrentTurn())
	}
}

func TestComputerReplies(t *testing.T) {
	g := newTestGame(t, ModeHumanVsComputer, board.White)

	if !g.AttemptMove(board.E2, board.E4) {
		t.Fatal("e2e4 rejected")
	}
	if !g.IsThinking() {
		t.Fatal("Computer did not start thinking")
	}
	if g.AttemptMove(board.E7, board.E5) {
		t.Error("Human moved for the computer")
	}
	if _, err := g.Play(board.E7, board.E5); !errors.Is(err, ErrComputerTurn) {
		t.Errorf("Play error = %v, want %v", err, ErrComputerTurn)
	}

	d := waitComputer(t, g)
	if d.Piece.Team != board.Black {
		t.Errorf("Computer moved %+v, want a black piece", d.Piece)
	}
	if g.CurrentTurn() != board.White || len(g.History()) != 2 {
		t.Errorf("turn=%s history=%v", g.CurrentTurn(), g.History())
	}
	if g.IsThinking() {
		t.Error("Still thinking after the reply")
	}
}

func TestComputerMovesFirstAsWhite(t *testing.T) {
	g := newTestGame(t, ModeHumanVsComputer, board.Black)
	if !g.IsThinking() {
		t.Fatal("Computer playing White did not start")
	}
	waitComputer(t, g)
	if g.CurrentTurn() != board.Black {
		t.Errorf("CurrentTurn = %s, want Black", g.CurrentTurn())
	}
}

func TestComputerAutoQueens(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.Black)
	if err := g.LoadFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	g.SetMode(ModeHumanVsComputer, board.Black)

	d := waitComputer(t, g)
	if d.Move != mv(board.A7, board.A8) {
		t.Fatalf("Computer played %s, want a7a8", d.Move)
	}
	if d.PromotionPending || g.IsChoosingPromotion() {
		t.Error("Computer left the promotion pending")
	}
	if p := g.Piece(board.A8); p.Type != board.Queen {
		t.Errorf("a8 = %+v, want queen", p)
	}
}

func TestGameOver(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	var outcomes []Outcome
	g.OnGameOver = func(o Outcome) { outcomes = append(outcomes, o) }

	playAll(t, g, mv(board.F2, board.F3), mv(board.E7, board.E5), mv(board.G2, board.G4))
	d, err := g.Play(board.D8, board.H4)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !d.GameOver || !d.Check {
		t.Errorf("Unexpected delta %+v", d)
	}
	if !g.IsGameOver() || g.Result() != board.Checkmate || g.Winner() != board.Black {
		t.Errorf("over=%v result=%s winner=%s", g.IsGameOver(), g.Result(), g.Winner())
	}
	if got := g.ResultText(); got != "Black wins by checkmate" {
		t.Errorf("ResultText = %q", got)
	}
	if len(outcomes) != 1 || outcomes[0].Moves != 4 || outcomes[0].Winner != board.Black {
		t.Errorf("outcomes = %+v", outcomes)
	}
	if g.AttemptMove(board.E2, board.E3) {
		t.Error("Move accepted after checkmate")
	}
	res := <-g.RequestComputerMove()
	if !errors.Is(res.Err, engine.ErrNoMoves) {
		t.Errorf("RequestComputerMove after mate: %v", res.Err)
	}
}

func TestHighlights(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	h := g.Highlights()
	if h.Check != board.NoTile || h.LastMove != board.NoMove || h.BestMove != board.NoMove {
		t.Errorf("Unexpected start highlights %+v", h)
	}

	playAll(t, g, mv(board.E2, board.E4), mv(board.F7, board.F6), mv(board.D1, board.H5))
	h = g.Highlights()
	if h.Check != board.E8 {
		t.Errorf("Check = %s, want e8", h.Check)
	}
	if h.LastMove != mv(board.D1, board.H5) {
		t.Errorf("LastMove = %s, want d1h5", h.LastMove)
	}
	if !h.Attacked.Has(board.E8) || !h.Attacked.Has(board.F7) {
		t.Errorf("Attacked = %s, want e8 and f7", h.Attacked)
	}
}

func TestHint(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	if err := g.LoadFEN("4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	before := g.Snapshot()

	res := <-g.RequestComputerMove()
	if _, err := g.ApplyComputerMove(res); err != nil {
		t.Fatalf("ApplyComputerMove: %v", err)
	}
	if diff := cmp.Diff(before, g.Snapshot()); diff != "" {
		t.Errorf("Hint changed the board:\n%s", diff)
	}
	if got := g.Highlights().BestMove; got != mv(board.D1, board.D5) {
		t.Errorf("BestMove = %s, want d1d5", got)
	}

	playAll(t, g, mv(board.E1, board.E2))
	if got := g.Highlights().BestMove; got != board.NoMove {
		t.Errorf("BestMove = %s after a move, want none", got)
	}
}

func TestStaleResult(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	res := <-g.RequestComputerMove()
	playAll(t, g, mv(board.E2, board.E4))
	if _, err := g.ApplyComputerMove(res); !errors.Is(err, ErrStaleResult) {
		t.Errorf("ApplyComputerMove error = %v, want %v", err, ErrStaleResult)
	}
	if len(g.History()) != 1 {
		t.Errorf("History = %v, want one move", g.History())
	}
}

func TestRepeatedRequestsAgree(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	var moves []board.Move
	for i := 0; i < 4; i++ {
		res := <-g.RequestComputerMove()
		if res.Err != nil {
			t.Fatalf("request %d: %v", i, res.Err)
		}
		moves = append(moves, res.Move)
	}
	for i, m := range moves[1:] {
		if m != moves[0] {
			t.Errorf("request %d chose %s, first chose %s", i+1, m, moves[0])
		}
	}
}

func TestComputerMovesWhenSearchIsCutShort(t *testing.T) {
	eng := engine.NewEngine(1)
	eng.SetLimits(engine.SearchLimits{Depth: 5, MoveTime: time.Millisecond, QuiescenceDepth: 4})
	g := NewGame(eng)
	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	if err := g.LoadFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatal(err)
	}
	g.SetMode(ModeHumanVsComputer, board.Black)

	d := waitComputer(t, g)
	if !d.Move.IsValid() || d.Piece.Team != board.White {
		t.Fatalf("Computer delta %+v, want a white move", d)
	}
	if g.IsComputerTurn() || len(g.History()) != 1 {
		t.Fatalf("computerTurn=%v history=%v", g.IsComputerTurn(), g.History())
	}
	reply := g.board.LegalMoves()[0]
	if _, err := g.Play(reply.From, reply.To); err != nil {
		t.Errorf("Human reply %s: %v", reply, err)
	}
}

func TestFailedSearchFallsBack(t *testing.T) {
	g := newTestGame(t, ModeHumanVsComputer, board.Black)
	want := board.NewBoard().LegalMoves()[0]

	d, err := g.ApplyComputerMove(engine.Result{Move: board.NoMove, Err: errors.New("bad snapshot")})
	if err != nil {
		t.Fatalf("ApplyComputerMove: %v", err)
	}
	if d.Move != want {
		t.Errorf("Fallback move = %s, want %s", d.Move, want)
	}
	if g.CurrentTurn() != board.Black || g.IsComputerTurn() {
		t.Errorf("turn=%s computerTurn=%v", g.CurrentTurn(), g.IsComputerTurn())
	}
}

func TestComputerVsComputer(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	g.SetMode(ModeComputerVsComputer, board.NoTeam)
	for i := 0; i < 6 && !g.IsGameOver(); i++ {
		waitComputer(t, g)
	}
	if got := len(g.History()); got != 6 && !g.IsGameOver() {
		t.Errorf("History has %d moves, want 6", got)
	}
}

func TestReset(t *testing.T) {
	g := newTestGame(t, ModeHumanVsHuman, board.White)
	playAll(t, g, mv(board.E2, board.E4), mv(board.E7, board.E5))
	g.Reset()
	if g.FEN() != board.StartFEN {
		t.Errorf("FEN after reset = %s", g.FEN())
	}
	if len(g.History()) != 0 || g.Highlights().LastMove != board.NoMove {
		t.Error("Reset kept history")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeHumanVsHuman, ModeHumanVsComputer, ModeComputerVsComputer} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%s) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("bots"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
