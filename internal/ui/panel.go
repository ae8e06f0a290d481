package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/engine"
	"github.com/hailam/tilechess/internal/game"
)

// Panel dimensions
const (
	PanelPadding   = 20
	SectionSpacing = 24
	ButtonHeight   = 36
	TabHeight      = 30
	SectionLabelH  = 20
	historyLineH   = 20
)

// Panel colors
var (
	panelBg        = color.RGBA{38, 40, 45, 255}
	tabActiveBg    = color.RGBA{76, 132, 96, 255}
	tabInactiveBg  = color.RGBA{50, 54, 60, 255}
	tabHoverBg     = color.RGBA{65, 70, 78, 255}
	buttonBorder   = color.RGBA{70, 75, 82, 255}
	accentColor    = color.RGBA{76, 175, 120, 255}
	accentHover    = color.RGBA{96, 195, 140, 255}
	accentPressed  = color.RGBA{56, 155, 100, 255}
	textPrimary    = color.RGBA{240, 240, 245, 255}
	textSecondary  = color.RGBA{160, 165, 175, 255}
	dividerColor   = color.RGBA{60, 65, 72, 255}
	statusThinking = color.RGBA{100, 180, 255, 255}
	statusGameOver = color.RGBA{255, 200, 80, 255}
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	Active     func() bool
	hovered    bool
	pressed    bool
}

func (b *Button) contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

// Panel is the side panel with controls, status and move history.
type Panel struct {
	ui *Game

	newGameBtn *Button
	hintBtn    *Button
	modeTabs   []*Button
	sideTabs   []*Button
	diffTabs   []*Button

	historyY int
}

// NewPanel creates the panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{ui: g}
	p.createButtons()
	return p
}

// createButtons lays out all panel buttons.
func (p *Panel) createButtons() {
	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2
	y := PanelPadding

	p.newGameBtn = &Button{X: x, Y: y, W: w/2 - 4, H: ButtonHeight, Label: "New Game", OnClick: p.ui.NewGameAction}
	p.hintBtn = &Button{X: x + w/2 + 4, Y: y, W: w/2 - 4, H: ButtonHeight, Label: "Hint", OnClick: p.ui.HintAction}
	y += ButtonHeight + SectionSpacing + SectionLabelH

	p.modeTabs = tabRow(x, y, w, []string{"vs Human", "vs Computer", "Watch"}, func(i int) (func(), func() bool) {
		mode := game.Mode(i)
		return func() { p.ui.SetMode(mode) },
			func() bool { return p.ui.game.Mode() == mode }
	})
	y += TabHeight + SectionSpacing + SectionLabelH

	p.sideTabs = tabRow(x, y, w, []string{"White", "Black"}, func(i int) (func(), func() bool) {
		team := []board.Team{board.White, board.Black}[i]
		return func() { p.ui.SetHumanTeam(team) },
			func() bool { return p.ui.game.HumanTeam() == team }
	})
	y += TabHeight + SectionSpacing + SectionLabelH

	p.diffTabs = tabRow(x, y, w, []string{"Easy", "Medium", "Hard"}, func(i int) (func(), func() bool) {
		d := engine.Difficulty(i)
		return func() { p.ui.SetDifficulty(d) },
			func() bool { return p.ui.difficulty == d }
	})
	y += TabHeight + SectionSpacing

	p.historyY = y
}

func tabRow(x, y, w int, labels []string, bind func(int) (func(), func() bool)) []*Button {
	tabW := w / len(labels)
	tabs := make([]*Button, len(labels))
	for i, label := range labels {
		onClick, active := bind(i)
		tabs[i] = &Button{X: x + i*tabW, Y: y, W: tabW, H: TabHeight, Label: label, OnClick: onClick, Active: active}
	}
	return tabs
}

func (p *Panel) buttons() []*Button {
	all := []*Button{p.newGameBtn, p.hintBtn}
	all = append(all, p.modeTabs...)
	if p.ui.game.Mode() == game.ModeHumanVsComputer {
		all = append(all, p.sideTabs...)
	}
	if p.ui.game.Mode() != game.ModeHumanVsHuman {
		all = append(all, p.diffTabs...)
	}
	return all
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()
	for _, btn := range p.buttons() {
		btn.hovered = btn.contains(mx, my)
		btn.pressed = btn.hovered && input.IsLeftPressed()
		if btn.hovered && input.IsLeftJustPressed() {
			btn.OnClick()
			return true
		}
	}
	return false
}

// AnyButtonHovered returns true if any button in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, btn := range p.buttons() {
		if btn.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, float32(BoardSize), 0, float32(PanelWidth), float32(ScreenHeight), panelBg, false)

	p.drawPrimaryButton(screen, p.newGameBtn)
	p.drawPrimaryButton(screen, p.hintBtn)

	x := BoardSize + PanelPadding
	p.drawText(screen, bodyFace(), "Game Mode", x, p.modeTabs[0].Y-SectionLabelH, textSecondary)
	p.drawTabs(screen, p.modeTabs)

	if p.ui.game.Mode() == game.ModeHumanVsComputer {
		p.drawText(screen, bodyFace(), "You Play", x, p.sideTabs[0].Y-SectionLabelH, textSecondary)
		p.drawTabs(screen, p.sideTabs)
	}
	if p.ui.game.Mode() != game.ModeHumanVsHuman {
		p.drawText(screen, bodyFace(), "Difficulty", x, p.diffTabs[0].Y-SectionLabelH, textSecondary)
		p.drawTabs(screen, p.diffTabs)
	}

	p.drawText(screen, bodyFace(), "Moves", x, p.historyY, textSecondary)
	p.drawMoveHistory(screen, p.historyY+SectionLabelH+4)
	p.drawStatusBar(screen)
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, btn *Button) {
	bg := accentColor
	switch {
	case btn.pressed:
		bg = accentPressed
	case btn.hovered:
		bg = accentHover
	}
	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bg, false)
	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textPrimary)
}

func (p *Panel) drawTabs(screen *ebiten.Image, tabs []*Button) {
	for _, tab := range tabs {
		bg := tabInactiveBg
		switch {
		case tab.Active != nil && tab.Active():
			bg = tabActiveBg
		case tab.hovered:
			bg = tabHoverBg
		}
		vector.DrawFilledRect(screen, float32(tab.X), float32(tab.Y), float32(tab.W), float32(tab.H), bg, false)
		vector.StrokeRect(screen, float32(tab.X), float32(tab.Y), float32(tab.W), float32(tab.H), 1, buttonBorder, false)
		p.drawTextCentered(screen, tab.Label, tab.X+tab.W/2, tab.Y+tab.H/2, textPrimary)
	}
}

// drawMoveHistory lists the most recent moves that fit above the status bar.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	lines := historyLines(p.ui.game.History())
	visible := (ScreenHeight - 90 - startY) / historyLineH
	if visible < 1 {
		return
	}
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for i, line := range lines {
		p.drawText(screen, bodyFace(), line, BoardSize+PanelPadding, startY+i*historyLineH, textPrimary)
	}
}

// historyLines formats moves as numbered pairs, e.g. "1. e2e4  e7e5".
func historyLines(moves []board.Move) []string {
	var lines []string
	for i := 0; i < len(moves); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, moves[i])
		if i+1 < len(moves) {
			line += "  " + moves[i+1].String()
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	statusY := ScreenHeight - 70
	x := BoardSize + PanelPadding

	vector.DrawFilledRect(screen, float32(x), float32(statusY-10), float32(PanelWidth-PanelPadding*2), 1, dividerColor, false)

	g := p.ui.game
	var status string
	statusColor := textPrimary
	face := bodyFace()
	switch {
	case g.IsGameOver():
		status = g.ResultText()
		statusColor = statusGameOver
		face = statusFace()
	case g.IsThinking() && g.IsComputerTurn():
		status = "Computer thinking..."
		statusColor = statusThinking
	case g.IsChoosingPromotion():
		status = "Choose a promotion piece"
	default:
		status = fmt.Sprintf("%s to move", g.CurrentTurn())
	}
	p.drawText(screen, face, status, x, statusY, statusColor)
	p.drawText(screen, bodyFace(), p.ui.statsLine(), x, statusY+22, textSecondary)
}

func (p *Panel) drawText(screen *ebiten.Image, face *text.GoTextFace, s string, x, y int, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, centerX, centerY int, c color.Color) {
	face := bodyFace()
	if face == nil {
		return
	}
	w, h := measure(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(centerX)-w/2, float64(centerY)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
