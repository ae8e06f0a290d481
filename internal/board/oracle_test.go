package board

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// tileFromSquare converts an a1-based square index to a Tile.
func tileFromSquare(sq int) Tile {
	return Tile((7-sq/8)*8 + sq%8)
}

func sortedMoves(moves []Move) []Move {
	out := append([]Move(nil), moves...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// dragontoothMoves returns the legal moves of db as tile pairs. Promotions
// other than to a queen are skipped.
func dragontoothMoves(db *dragontoothmg.Board) ([]Move, []dragontoothmg.Move) {
	var moves []Move
	var raw []dragontoothmg.Move
	for _, m := range db.GenerateLegalMoves() {
		if p := m.Promote(); p != 0 && p != dragontoothmg.Queen {
			continue
		}
		moves = append(moves, Move{From: tileFromSquare(int(m.From())), To: tileFromSquare(int(m.To()))})
		raw = append(raw, m)
	}
	return sortedMoves(moves), raw
}

func compareWithDragontooth(t *testing.T, b *Board, db *dragontoothmg.Board, depth int, path string) {
	t.Helper()
	want, raw := dragontoothMoves(db)
	got := sortedMoves(b.LegalMoves())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("legal moves differ after %q (%s) (-dragontooth +board):\n%s", path, b.FEN(), diff)
	}
	if depth <= 1 {
		return
	}
	for _, dm := range raw {
		m := Move{From: tileFromSquare(int(dm.From())), To: tileFromSquare(int(dm.To()))}
		unapply := db.Apply(dm)
		undo, err := b.Make(m)
		if err != nil {
			t.Fatalf("Make(%s) after %q: %v", m, path, err)
		}
		compareWithDragontooth(t, b, db, depth-1, path+" "+m.String())
		b.Unmake(undo)
		unapply()
	}
}

func TestMoveGenerationMatchesDragontooth(t *testing.T) {
	positions := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start", StartFEN, 3},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2},
		{"en passant pin", "8/8/8/K2pP2r/8/8/8/4k3 w - d6 0 1", 2},
	}

	for _, tc := range positions {
		t.Run(tc.name, func(t *testing.T) {
			b := mustLoad(t, tc.fen)
			db := dragontoothmg.ParseFen(tc.fen)
			compareWithDragontooth(t, b, &db, tc.depth, "")
		})
	}
}

// TestRandomGamesMatchNotnil replays seeded random games and compares the
// legal move sets ply by ply.
func TestRandomGamesMatchNotnil(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		rng := rand.New(rand.NewSource(seed))
		game := chess.NewGame()
		b := NewBoard()

		for ply := 0; ply < 120; ply++ {
			if game.Outcome() != chess.NoOutcome || b.IsGameOver() {
				break
			}
			byMove := make(map[Move]*chess.Move)
			var want []Move
			for _, m := range game.ValidMoves() {
				if p := m.Promo(); p != chess.NoPieceType && p != chess.Queen {
					continue
				}
				tm := Move{From: tileFromSquare(int(m.S1())), To: tileFromSquare(int(m.S2()))}
				byMove[tm] = m
				want = append(want, tm)
			}
			want = sortedMoves(want)
			got := sortedMoves(b.LegalMoves())
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("seed %d ply %d (%s): legal moves differ (-notnil +board):\n%s", seed, ply, b.FEN(), diff)
			}

			pick := got[rng.Intn(len(got))]
			if err := game.Move(byMove[pick]); err != nil {
				t.Fatalf("notnil rejected %s: %v", pick, err)
			}
			if err := b.MovePiece(pick.From, pick.To); err != nil {
				t.Fatalf("MovePiece(%s): %v", pick, err)
			}
			if b.IsChoosingPromotion() {
				if err := b.Promote(Queen); err != nil {
					t.Fatalf("Promote: %v", err)
				}
			}
		}
	}
}
