// TileChess - a chess game built with Ebitengine
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/engine"
	"github.com/hailam/tilechess/internal/game"
	"github.com/hailam/tilechess/internal/storage"
	"github.com/hailam/tilechess/internal/ui"
)

var (
	dataDir    = flag.String("data-dir", "", "directory for preferences and stats (default: $TILECHESS_DATA_DIR or the platform data dir)")
	logLevel   = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	depth      = flag.Int("depth", 0, "search depth in plies (overrides difficulty)")
	seed       = flag.Int64("seed", 0, "tie-break seed for the computer")
	difficulty = flag.String("difficulty", "", "computer strength: easy, medium, hard")
	vs         = flag.String("vs", "", "opponent: human, computer, or watch")
	playAs     = flag.String("play-as", "", "team the human plays against the computer: white or black")
	fen        = flag.String("fen", "", "start from this position")
)

func main() {
	flag.Parse()
	setupLogging(*logLevel)

	store, err := storage.Open(*dataDir)
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, preferences will not be saved")
		store = nil
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(); err != nil {
			log.Warn().Err(err).Msg("failed to load preferences")
			prefs = storage.DefaultPreferences()
		}
	}

	opts, err := options(prefs, store)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid options")
	}

	g, err := ui.NewGame(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start game")
	}
	defer func() {
		if err := g.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("TileChess")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Error().Err(err).Msg("game loop")
	}
}

// options merges stored preferences with command-line flags; flags win.
func options(prefs *storage.Preferences, store *storage.Storage) (ui.Options, error) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	diffName := prefs.Difficulty
	if set["difficulty"] {
		diffName = *difficulty
	}
	diff, err := engine.ParseDifficulty(diffName)
	if err != nil && set["difficulty"] {
		return ui.Options{}, err
	}

	modeName := prefs.PlayMode
	if set["vs"] {
		modeName = modeFlag(*vs)
	}
	mode, err := game.ParseMode(modeName)
	if err != nil && set["vs"] {
		return ui.Options{}, err
	}

	teamName := prefs.HumanTeam
	if set["play-as"] {
		teamName = *playAs
	}
	human := board.White
	switch strings.ToLower(teamName) {
	case "white", "":
	case "black":
		human = board.Black
	default:
		return ui.Options{}, fmt.Errorf("unknown team %q", teamName)
	}

	s := prefs.Seed
	if set["seed"] {
		s = *seed
	}
	if s == 0 {
		s = time.Now().UnixNano()
	}

	return ui.Options{
		Storage:     store,
		Preferences: prefs,
		Difficulty:  diff,
		Depth:       *depth,
		Mode:        mode,
		Human:       human,
		Seed:        s,
		FEN:         *fen,
	}, nil
}

// modeFlag maps the -vs flag onto mode names.
func modeFlag(s string) string {
	switch strings.ToLower(s) {
	case "human":
		return game.ModeHumanVsHuman.String()
	case "computer":
		return game.ModeHumanVsComputer.String()
	case "watch":
		return game.ModeComputerVsComputer.String()
	default:
		return s
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
