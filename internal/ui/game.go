package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/engine"
	"github.com/hailam/tilechess/internal/game"
	"github.com/hailam/tilechess/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// promotionChoices is the order of the promotion picker.
var promotionChoices = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// pickerTiles returns the tiles of the promotion picker, starting on the
// promotion tile and running toward the middle of the board.
func pickerTiles(promo board.Tile) []board.Tile {
	step := board.Tile(8)
	if promo.Row() == 7 {
		step = -8
	}
	tiles := make([]board.Tile, len(promotionChoices))
	for i := range tiles {
		tiles[i] = promo + board.Tile(i)*step
	}
	return tiles
}

// Options configures a new front end.
type Options struct {
	Storage     *storage.Storage // may be nil
	Preferences *storage.Preferences
	Difficulty  engine.Difficulty
	Depth       int // overrides the difficulty depth when positive
	Mode        game.Mode
	Human       board.Team
	Seed        int64
	FEN         string
}

// Game implements ebiten.Game on top of the turn controller.
type Game struct {
	game       *game.Game
	difficulty engine.Difficulty
	depth      int
	logger     zerolog.Logger

	// Storage
	storage *storage.Storage
	prefs   *storage.Preferences
	stats   *storage.Stats

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager

	// Selection state
	selected     board.Tile
	targets      []board.Tile
	dragging     bool
	dragTile     board.Tile
	showAttacked bool
}

// NewGame creates the front end and its game.
func NewGame(opts Options) (*Game, error) {
	eng := engine.NewEngine(opts.Seed)
	g := &Game{
		game:       game.NewGame(eng),
		difficulty: opts.Difficulty,
		depth:      opts.Depth,
		logger:     log.With().Str("component", "ui").Logger(),
		storage:    opts.Storage,
		prefs:      opts.Preferences,
		renderer:   NewRenderer(SquareSize),
		input:      NewInputHandler(),
		feedback:   NewFeedbackManager(),
		selected:   board.NoTile,
		dragTile:   board.NoTile,
	}
	if g.prefs == nil {
		g.prefs = storage.DefaultPreferences()
	}
	g.applyDifficulty()
	g.loadStats()

	g.game.OnGameOver = g.onGameOver
	if opts.FEN != "" {
		if err := g.game.LoadFEN(opts.FEN); err != nil {
			return nil, fmt.Errorf("load position: %w", err)
		}
	}
	g.panel = NewPanel(g)
	g.renderer.SetFlipped(opts.Mode == game.ModeHumanVsComputer && opts.Human == board.Black)
	g.game.SetMode(opts.Mode, opts.Human)
	return g, nil
}

func (g *Game) applyDifficulty() {
	eng := g.game.Engine()
	eng.SetDifficulty(g.difficulty)
	if g.depth > 0 {
		limits := eng.Limits()
		limits.Depth = g.depth
		eng.SetLimits(limits)
	}
}

func (g *Game) loadStats() {
	if g.storage == nil {
		return
	}
	stats, err := g.storage.LoadStats()
	if err != nil {
		g.logger.Warn().Err(err).Msg("failed to load stats")
		return
	}
	g.stats = stats
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	g.prefs.Difficulty = g.difficulty.String()
	g.prefs.PlayMode = g.game.Mode().String()
	g.prefs.HumanTeam = strings.ToLower(g.game.HumanTeam().String())
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		g.logger.Warn().Err(err).Msg("failed to save preferences")
	}
}

// gameRecord converts a finished game into a stats record.
func gameRecord(o game.Outcome, difficulty engine.Difficulty) storage.GameRecord {
	rec := storage.GameRecord{
		Outcome:    storage.OutcomeUnrated,
		Reason:     o.Result.String(),
		Mode:       o.Mode.String(),
		Difficulty: difficulty.String(),
		Moves:      o.Moves,
		Duration:   o.Duration,
	}
	if o.Mode != game.ModeHumanVsComputer {
		return rec
	}
	switch o.Winner {
	case board.NoTeam:
		rec.Outcome = storage.OutcomeDraw
	case o.Human:
		rec.Outcome = storage.OutcomeWin
	default:
		rec.Outcome = storage.OutcomeLoss
	}
	return rec
}

func (g *Game) onGameOver(o game.Outcome) {
	g.feedback.OnGameOver(g.game.ResultText(), o.Winner != board.NoTeam)
	if g.storage == nil {
		return
	}
	if err := g.storage.RecordGame(gameRecord(o, g.difficulty)); err != nil {
		g.logger.Warn().Err(err).Msg("failed to record game")
		return
	}
	g.loadStats()
}

// statsLine summarizes the stored statistics.
func (g *Game) statsLine() string {
	if g.stats == nil {
		return g.prefs.Username
	}
	return fmt.Sprintf("%s  W%d L%d D%d", g.prefs.Username, g.stats.Wins, g.stats.Losses, g.stats.Draws)
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	for _, cmd := range g.input.Commands() {
		g.runCommand(cmd)
	}

	if !g.panel.HandleInput(g.input) {
		if g.game.IsChoosingPromotion() {
			g.handlePromotionInput()
		} else {
			g.handleBoardInput()
		}
	}

	g.checkComputerMove()
	g.updateCursor()
	return nil
}

func (g *Game) runCommand(cmd Command) {
	if pt, ok := promotionCommand(cmd); ok {
		g.promote(pt)
		return
	}
	switch cmd {
	case CmdNewGame:
		g.NewGameAction()
	case CmdHint:
		g.HintAction()
	case CmdToggleMode:
		g.SetMode((g.game.Mode() + 1) % 3)
	case CmdSwitchSide:
		g.SetHumanTeam(g.game.HumanTeam().Other())
	case CmdFlip:
		g.renderer.SetFlipped(!g.renderer.Flipped())
	case CmdToggleAttacked:
		g.showAttacked = !g.showAttacked
	case CmdEasy:
		g.SetDifficulty(engine.Easy)
	case CmdMedium:
		g.SetDifficulty(engine.Medium)
	case CmdHard:
		g.SetDifficulty(engine.Hard)
	}
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.renderer.Theme().Background)

	h := g.game.Highlights()
	g.renderer.DrawBoard(screen)
	g.renderer.DrawHighlights(screen, h, g.selected, g.targets, g.showAttacked)

	dragTile := board.NoTile
	if g.dragging {
		dragTile = g.dragTile
	}
	g.renderer.DrawPieces(screen, g.game.Piece, dragTile, g.feedback.Animations())
	g.renderer.DrawBestMove(screen, h.BestMove)

	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, g.game.Piece(g.dragTile), mx, my)
	}
	if h.Promotion != board.NoTile {
		g.renderer.DrawPromotionPicker(screen, h.Promotion, g.game.Piece(h.Promotion).Team)
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	if g.game.IsGameOver() || g.game.IsComputerTurn() {
		return
	}

	mx, my := g.input.MousePosition()
	if g.input.IsLeftJustPressed() {
		t := g.renderer.ScreenToTile(mx, my)
		if t == board.NoTile {
			return
		}

		p := g.game.Piece(t)
		if p.IsReal() && p.Team == g.game.CurrentTurn() {
			g.selectTile(t)
			g.dragging = true
			g.dragTile = t
			return
		}
		if g.selected != board.NoTile {
			g.tryMove(g.selected, t)
			return
		}
		g.clearSelection()
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		target := g.renderer.ScreenToTile(mx, my)
		g.dragging = false
		if target == board.NoTile || target == g.dragTile {
			return
		}
		g.tryMove(g.dragTile, target)
	}
}

// handlePromotionInput picks a promotion piece with the mouse.
func (g *Game) handlePromotionInput() {
	if !g.input.IsLeftJustPressed() {
		return
	}
	mx, my := g.input.MousePosition()
	t := g.renderer.ScreenToTile(mx, my)
	for i, pt := range pickerTiles(g.game.Highlights().Promotion) {
		if pt == t {
			g.promote(promotionChoices[i])
			return
		}
	}
}

func (g *Game) promote(pt board.PieceType) {
	if !g.game.IsChoosingPromotion() {
		return
	}
	if err := g.game.Promote(pt); err != nil {
		g.logger.Warn().Err(err).Msg("promotion failed")
		return
	}
	g.afterMove(game.Delta{Check: g.game.Highlights().Check != board.NoTile, GameOver: g.game.IsGameOver()})
}

func (g *Game) tryMove(from, to board.Tile) {
	d, err := g.game.Play(from, to)
	if err != nil {
		g.feedback.OnRejected(from, to, err)
		g.clearSelection()
		return
	}
	if d.PromotionPending {
		g.clearSelection()
		return
	}
	g.afterMove(d)
}

func (g *Game) afterMove(d game.Delta) {
	g.clearSelection()
	g.feedback.OnMove(d)
}

// checkComputerMove applies a finished search.
func (g *Game) checkComputerMove() {
	d, ok, err := g.game.PollComputerMove()
	if !ok {
		return
	}
	switch {
	case errors.Is(err, game.ErrStaleResult), errors.Is(err, engine.ErrNoMoves):
		return
	case err != nil:
		g.logger.Error().Err(err).Msg("computer move failed")
		return
	}
	if d.Move.IsValid() {
		g.afterMove(d)
	}
}

func (g *Game) selectTile(t board.Tile) {
	g.selected = t
	g.targets = g.game.MovesFrom(t)
}

func (g *Game) clearSelection() {
	g.selected = board.NoTile
	g.targets = nil
	g.dragging = false
	g.dragTile = board.NoTile
}

// NewGameAction resets the game to the starting position.
func (g *Game) NewGameAction() {
	g.clearSelection()
	g.game.Reset()
}

// HintAction asks the computer for the best move of the side to move.
func (g *Game) HintAction() {
	if g.game.IsGameOver() || g.game.IsComputerTurn() {
		return
	}
	g.feedback.Info("Thinking...")
	g.game.RequestComputerMove()
}

// SetMode switches between human and computer control.
func (g *Game) SetMode(mode game.Mode) {
	g.game.SetMode(mode, g.game.HumanTeam())
	g.savePreferences()
}

// SetHumanTeam sets the team the human plays against the computer.
func (g *Game) SetHumanTeam(team board.Team) {
	g.clearSelection()
	g.renderer.SetFlipped(team == board.Black)
	g.game.SetMode(g.game.Mode(), team)
	g.savePreferences()
}

// SetDifficulty changes the computer strength for later searches.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.difficulty = d
	g.depth = 0
	g.applyDifficulty()
	g.savePreferences()
}

// Close stops the computer and closes storage.
func (g *Game) Close() error {
	err := g.game.Close()
	if g.storage != nil {
		g.savePreferences()
		err = errors.Join(err, g.storage.Close())
	}
	return err
}
