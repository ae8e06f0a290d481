package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/tilechess/internal/board"
)

func snapshotOf(t *testing.T, fen string) board.Snapshot {
	t.Helper()
	b, err := board.LoadFEN(fen)
	if err != nil {
		t.Fatalf("LoadFEN(%q): %v", fen, err)
	}
	return b.Snapshot()
}

func TestSearchBasic(t *testing.T) {
	b := board.NewBoard()
	eng := NewEngine(1)
	eng.SetDifficulty(Easy)

	res, err := eng.Search(context.Background(), b.Snapshot())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !b.IsLegal(res.Move) {
		t.Errorf("Search returned illegal move %s", res.Move)
	}
	if res.Depth != DifficultySettings[Easy].Depth {
		t.Errorf("Depth = %d, want %d", res.Depth, DifficultySettings[Easy].Depth)
	}
	t.Logf("Best move: %s (%s)", res.Move, ScoreToString(res.Score))
}

func TestSearchDeterminism(t *testing.T) {
	snap := board.NewBoard().Snapshot()
	limits := SearchLimits{Depth: 2, QuiescenceDepth: 2}

	var first Result
	for run := 0; run < 3; run++ {
		eng := NewEngine(42)
		eng.SetLimits(limits)
		res, err := eng.Search(context.Background(), snap)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if run == 0 {
			first = res
			continue
		}
		if res.Move != first.Move {
			t.Errorf("run %d chose %s, first run chose %s", run, res.Move, first.Move)
		}
		if diff := cmp.Diff(first.Ties, res.Ties); diff != "" {
			t.Errorf("run %d tie set differs:\n%s", run, diff)
		}
	}
}

func TestRootTieSet(t *testing.T) {
	eng := NewEngine(7)
	eng.SetLimits(SearchLimits{Depth: 1})

	res, err := eng.Search(context.Background(), board.NewBoard().Snapshot())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Every opening move keeps material level
	if len(res.Ties) != 20 {
		t.Errorf("len(Ties) = %d, want 20", len(res.Ties))
	}
	if res.Score != 0 {
		t.Errorf("Score = %d, want 0", res.Score)
	}
}

func TestMateInOne(t *testing.T) {
	eng := NewEngine(1)
	eng.SetLimits(SearchLimits{Depth: 2})

	res, err := eng.Search(context.Background(), snapshotOf(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := board.NewMove(board.A1, board.A8); res.Move != want {
		t.Errorf("Move = %s, want %s", res.Move, want)
	}
	if res.Score != MateScore-2 {
		t.Errorf("Score = %d, want %d", res.Score, MateScore-2)
	}
	if ScoreToString(res.Score) != "Mate in 1" {
		t.Errorf("ScoreToString(%d) = %s", res.Score, ScoreToString(res.Score))
	}
}

func TestWinsHangingQueen(t *testing.T) {
	eng := NewEngine(1)
	eng.SetLimits(SearchLimits{Depth: 1, QuiescenceDepth: 2})

	res, err := eng.Search(context.Background(), snapshotOf(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := board.NewMove(board.D1, board.D5); res.Move != want {
		t.Errorf("Move = %s, want %s", res.Move, want)
	}
}

func TestQuiescenceHorizon(t *testing.T) {
	fen := "7k/8/4p3/3p4/8/8/8/K2Q4 w - - 0 1"
	grab := board.NewMove(board.D1, board.D5)

	tests := []struct {
		name       string
		qDepth     int
		wantGrab   bool
		wantScores int
	}{
		{"no quiescence takes the guarded pawn", 0, true, 8},
		{"quiescence sees the recapture", 2, false, 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := NewEngine(1)
			eng.SetLimits(SearchLimits{Depth: 1, QuiescenceDepth: tc.qDepth})
			res, err := eng.Search(context.Background(), snapshotOf(t, fen))
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if (res.Move == grab) != tc.wantGrab {
				t.Errorf("Move = %s, grab expected %v", res.Move, tc.wantGrab)
			}
			if res.Score != tc.wantScores {
				t.Errorf("Score = %d, want %d", res.Score, tc.wantScores)
			}
		})
	}
}

func TestStopKeepsLastCompletedDepth(t *testing.T) {
	b := board.NewBoard()
	eng := NewEngine(3)
	eng.SetLimits(SearchLimits{Depth: 3})
	eng.OnInfo = func(info SearchInfo) {
		if info.Depth == 1 {
			eng.Stop()
		}
	}

	res, err := eng.Search(context.Background(), b.Snapshot())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Cancelled {
		t.Error("Expected cancelled result")
	}
	if res.Depth != 1 {
		t.Errorf("Depth = %d, want 1", res.Depth)
	}
	if !b.IsLegal(res.Move) {
		t.Errorf("Illegal move %s", res.Move)
	}
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := board.NewBoard()
	eng := NewEngine(1)
	eng.SetLimits(SearchLimits{Depth: 6})
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := eng.Search(ctx, b.Snapshot())
		if err != nil {
			t.Errorf("Search: %v", err)
			return
		}
		if !res.Cancelled || res.Depth != 0 {
			t.Errorf("Cancelled=%v Depth=%d, want a fallback result", res.Cancelled, res.Depth)
		}
		if !b.IsLegal(res.Move) {
			t.Errorf("Fallback move %s is illegal", res.Move)
		}
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Search ignored context cancellation")
	}
}

func TestStartStopWait(t *testing.T) {
	b := board.NewBoard()
	eng := NewEngine(5)
	eng.SetLimits(SearchLimits{Depth: 8})

	ch := eng.Start(context.Background(), b.Snapshot())
	eng.Stop()
	if err := eng.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	select {
	case res := <-ch:
		if res.Depth == 8 {
			t.Errorf("Expected stopped search, got full depth")
		}
		if !b.IsLegal(res.Move) {
			t.Errorf("Stopped search returned illegal move %s", res.Move)
		}
	default:
		t.Fatal("Result not delivered after Wait")
	}

	// A new search starts cleanly after the fence
	eng.SetLimits(SearchLimits{Depth: 1})
	res := <-eng.Start(context.Background(), b.Snapshot())
	if res.Err != nil || res.Depth != 1 || res.Cancelled {
		t.Errorf("Second search: depth=%d cancelled=%v err=%v", res.Depth, res.Cancelled, res.Err)
	}
}

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestDifficultyPresetsReachFullDepth(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		t.Run(d.String(), func(t *testing.T) {
			if d == Hard && testing.Short() {
				t.Skip("hard preset in short mode")
			}
			limits := DifficultySettings[d]
			if limits.MoveTime != 0 {
				t.Fatalf("MoveTime = %v, presets must run to full depth", limits.MoveTime)
			}

			snap := snapshotOf(t, kiwipete)
			b, err := board.FromSnapshot(snap)
			if err != nil {
				t.Fatal(err)
			}
			eng := NewEngine(1)
			eng.SetDifficulty(d)
			res, err := eng.Search(context.Background(), snap)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Cancelled || res.Depth != limits.Depth {
				t.Errorf("Depth = %d cancelled=%v, want %d", res.Depth, res.Cancelled, limits.Depth)
			}
			if !b.IsLegal(res.Move) {
				t.Errorf("Illegal move %s", res.Move)
			}
			t.Logf("%s: %s (%s) nodes=%d in %v", d, res.Move, ScoreToString(res.Score), res.Nodes, res.Time)
		})
	}
}

func TestMoveTimeStillYieldsMove(t *testing.T) {
	snap := snapshotOf(t, kiwipete)
	b, err := board.FromSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(2)
	eng.SetLimits(SearchLimits{Depth: 5, MoveTime: time.Millisecond, QuiescenceDepth: 4})

	res, err := eng.Search(context.Background(), snap)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Cancelled {
		t.Errorf("Expected the move time to stop a depth 5 search")
	}
	if !b.IsLegal(res.Move) {
		t.Errorf("Move = %s, want a legal move (depth %d)", res.Move, res.Depth)
	}
	if len(res.Ties) == 0 {
		t.Error("Expected candidate moves")
	}
}

func TestRepeatedSearchesAgree(t *testing.T) {
	eng := NewEngine(1)
	eng.SetLimits(SearchLimits{Depth: 1})
	snap := board.NewBoard().Snapshot()

	var moves []board.Move
	for i := 0; i < 4; i++ {
		res, err := eng.Search(context.Background(), snap)
		if err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
		moves = append(moves, res.Move)
	}
	want := []board.Move{moves[0], moves[0], moves[0], moves[0]}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Errorf("Same engine chose different moves:\n%s", diff)
	}
}

func TestSearchNoMoves(t *testing.T) {
	eng := NewEngine(1)
	_, err := eng.Search(context.Background(), snapshotOf(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1"))
	if !errors.Is(err, ErrNoMoves) {
		t.Errorf("Search on mated position = %v, want %v", err, ErrNoMoves)
	}
}

func TestEvaluate(t *testing.T) {
	if got := Evaluate(board.NewBoard()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
	b, err := board.LoadFEN("4k3/8/8/3q4/8/8/8/3RK3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Evaluate(b); got != 4 {
		t.Errorf("Evaluate = %d, want 4 for black", got)
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%s) = %v, %v", d, got, err)
		}
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("Expected error for unknown difficulty")
	}
}
