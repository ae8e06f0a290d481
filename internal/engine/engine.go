package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/tilechess/internal/board"
)

// ErrNoMoves reports that the side to move has no legal moves.
var ErrNoMoves = errors.New("no legal moves")

// SearchInfo contains information about a completed depth.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Ties  []board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth           int           // Maximum depth in plies
	MoveTime        time.Duration // Time for this move (0 = no limit)
	QuiescenceDepth int           // Maximum captures searched past the horizon (0 = none)
}

// Result is the outcome of a search.
type Result struct {
	Move      board.Move   // chosen move
	Score     int          // score of Move from the mover's view
	Depth     int          // last fully completed depth, 0 for a fallback move
	Ties      []board.Move // all root moves sharing the best score
	Nodes     uint64
	Time      time.Duration
	Cancelled bool // stopped before reaching the full depth
	Err       error
}

// Difficulty represents the computer strength.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// DifficultySettings maps difficulty to search limits. Presets have no move
// time: a search runs to its full depth unless stopped.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 1, QuiescenceDepth: 2},
	Medium: {Depth: 2, QuiescenceDepth: 2},
	Hard:   {Depth: 3, QuiescenceDepth: 3},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine chooses moves for the computer. Each search runs on a private
// board built from a snapshot; at most one search runs at a time.
type Engine struct {
	limits SearchLimits
	seed   int64
	logger zerolog.Logger

	mu    sync.Mutex
	stop  *atomic.Bool // stop flag of the current search
	group *errgroup.Group

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine whose tie-breaks are drawn from seed. Every
// search restarts the source, so the same position and limits always give
// the same move.
func NewEngine(seed int64) *Engine {
	return &Engine{
		limits: DifficultySettings[Medium],
		seed:   seed,
		logger: log.With().Str("component", "engine").Logger(),
	}
}

// SetDifficulty sets the search limits from a difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	if limits, ok := DifficultySettings[d]; ok {
		e.SetLimits(limits)
	}
}

// SetLimits sets the search limits used by later searches.
func (e *Engine) SetLimits(limits SearchLimits) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.limits = limits
}

// Limits returns the current search limits.
func (e *Engine) Limits() SearchLimits {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.limits
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.logger = l
}

// Search runs a search to completion on the position and returns its result.
func (e *Engine) Search(ctx context.Context, snap board.Snapshot) (Result, error) {
	res := <-e.Start(ctx, snap)
	return res, res.Err
}

// Start stops and waits for any running search, then searches the position
// in the background. The result is delivered once on the returned channel.
func (e *Engine) Start(ctx context.Context, snap board.Snapshot) <-chan Result {
	e.Stop()
	_ = e.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(chan Result, 1)
	limits := e.limits
	rng := rand.New(rand.NewSource(e.seed))
	stop := &atomic.Bool{}
	e.stop = stop
	g := &errgroup.Group{}
	e.group = g
	g.Go(func() error {
		res := e.run(ctx, snap, limits, rng, stop)
		out <- res
		return res.Err
	})
	return out
}

// Stop signals the running search to stop. The best move of the last
// completed depth is still reported, or a fallback move when none
// completed.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		e.stop.Store(true)
	}
}

// Wait blocks until the running search, if any, has finished.
func (e *Engine) Wait() error {
	e.mu.Lock()
	g := e.group
	e.mu.Unlock()
	if g == nil {
		return nil
	}
	return g.Wait()
}

// run performs iterative deepening on a private board. Late cancellations
// only ever set this search's own stop flag.
func (e *Engine) run(ctx context.Context, snap board.Snapshot, limits SearchLimits, rng *rand.Rand, stop *atomic.Bool) Result {
	b, err := board.FromSnapshot(snap)
	if err != nil {
		return Result{Move: board.NoMove, Err: fmt.Errorf("seed search board: %w", err)}
	}
	if b.IsGameOver() || len(b.LegalMoves()) == 0 {
		return Result{Move: board.NoMove, Err: ErrNoMoves}
	}

	halt := func() { stop.Store(true) }
	if ctx.Err() != nil {
		halt()
	}
	stopOnCancel := context.AfterFunc(ctx, halt)
	defer stopOnCancel()
	if limits.MoveTime > 0 {
		timer := time.AfterFunc(limits.MoveTime, halt)
		defer timer.Stop()
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = DifficultySettings[Medium].Depth
	}

	startTime := time.Now()
	s := NewSearcher(b, stop, limits.QuiescenceDepth)
	res := Result{Move: board.NoMove}
	var partial []board.Move

	// Iterative deepening
	for depth := 1; depth <= maxDepth; depth++ {
		score := s.SearchDepth(depth)

		// A stopped depth is incomplete; keep the previous one
		if stop.Load() {
			partial = append(partial, s.Ties()...)
			res.Cancelled = true
			e.logger.Info().Int("depth", depth).Int("completed", res.Depth).Msg("search stopped")
			break
		}

		res.Depth = depth
		res.Score = score
		res.Ties = append(res.Ties[:0], s.Ties()...)

		elapsed := time.Since(startTime)
		e.logger.Debug().
			Int("depth", depth).
			Int("score", score).
			Uint64("nodes", s.Nodes()).
			Int("ties", len(res.Ties)).
			Dur("elapsed", elapsed).
			Msg("depth complete")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: s.Nodes(),
				Time:  elapsed,
				Ties:  append([]board.Move(nil), res.Ties...),
			})
		}

		// Early termination: found mate
		if score > MateScore-MaxPly || score < -MateScore+MaxPly {
			break
		}
	}

	res.Nodes = s.Nodes()
	res.Time = time.Since(startTime)
	if res.Depth == 0 {
		// Stopped inside depth 1: choose among the fully searched root moves
		// that tied so far, or among all legal moves.
		res.Ties = partial
		if len(res.Ties) == 0 {
			res.Ties = b.LegalMoves()
		}
		res.Move = res.Ties[rng.Intn(len(res.Ties))]
		e.logger.Warn().Str("move", res.Move.String()).Int("candidates", len(res.Ties)).Msg("no depth completed, fallback move")
		return res
	}
	res.Move = res.Ties[rng.Intn(len(res.Ties))]
	e.logger.Info().
		Str("move", res.Move.String()).
		Str("score", ScoreToString(res.Score)).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Msg("best move")
	return res
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		return "Mate in " + strconv.Itoa((MateScore-score+1)/2)
	}
	if score < -MateScore+MaxPly {
		return "Mated in " + strconv.Itoa((MateScore+score)/2)
	}
	if score > 0 {
		return "+" + strconv.Itoa(score)
	}
	return strconv.Itoa(score)
}
