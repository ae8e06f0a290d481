// Command perft counts the leaf nodes of the legal move tree from a
// position, depth by depth, and optionally lets the engine pick a move.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/engine"
)

var (
	fen        = flag.String("fen", board.StartFEN, "position to count from")
	depth      = flag.Int("depth", 4, "deepest level to count")
	divide     = flag.Bool("divide", false, "print per-move counts at the deepest level")
	search     = flag.String("search", "", "also search the position at this difficulty: easy, medium, hard")
	seed       = flag.Int64("seed", 1, "tie-break seed for -search")
	logLevel   = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	if err := run(os.Stdout); err != nil {
		log.Error().Err(err).Msg("perft")
		os.Exit(1)
	}
}

func run(out *os.File) error {
	b, err := board.LoadFEN(*fen)
	if err != nil {
		return fmt.Errorf("load position: %w", err)
	}
	if *depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", *depth)
	}

	fmt.Fprintf(out, "%s\n", b.FEN())
	for d := 1; d <= *depth; d++ {
		start := time.Now()
		nodes := b.Perft(d)
		elapsed := time.Since(start)
		fmt.Fprintf(out, "depth %d: %12d nodes %10s %12.0f nps\n", d, nodes, elapsed.Round(time.Millisecond), nps(nodes, elapsed))
	}

	if *divide {
		printDivide(out, b.Divide(*depth))
	}

	if *search != "" {
		return runSearch(out, b.Snapshot())
	}
	return nil
}

func printDivide(out *os.File, counts map[board.Move]uint64) {
	moves := make([]board.Move, 0, len(counts))
	for m := range counts {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })

	var total uint64
	for _, m := range moves {
		fmt.Fprintf(out, "%s: %d\n", m, counts[m])
		total += counts[m]
	}
	fmt.Fprintf(out, "moves: %d total: %d\n", len(moves), total)
}

func runSearch(out *os.File, snap board.Snapshot) error {
	d, err := engine.ParseDifficulty(*search)
	if err != nil {
		return err
	}
	eng := engine.NewEngine(*seed)
	eng.SetDifficulty(d)
	eng.OnInfo = func(info engine.SearchInfo) {
		fmt.Fprintf(out, "info depth %d score %s nodes %d time %s ties %d\n",
			info.Depth, engine.ScoreToString(info.Score), info.Nodes, info.Time.Round(time.Millisecond), len(info.Ties))
	}

	res, err := eng.Search(context.Background(), snap)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	fmt.Fprintf(out, "bestmove %s\n", res.Move)
	return nil
}

func nps(nodes uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(nodes) / elapsed.Seconds()
}
