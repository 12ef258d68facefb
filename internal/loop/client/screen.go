package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/paddles/internal/draw"
	"github.com/tomz197/paddles/internal/loop/match"
	"github.com/tomz197/paddles/internal/object"
	"github.com/tomz197/paddles/internal/physics"
)

// styles holds the HUD text styles.
type styles struct {
	title     lipgloss.Style
	score     lipgloss.Style
	you       lipgloss.Style
	countdown lipgloss.Style
	win       lipgloss.Style
	lose      lipgloss.Style
	hint      lipgloss.Style
	status    lipgloss.Style
	warn      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		score:     r.NewStyle().Bold(true),
		you:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		countdown: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		win:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		lose:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		hint:      r.NewStyle().Faint(true),
		status:    r.NewStyle().Foreground(lipgloss.Color("8")),
		warn:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// Phase changes replace the whole screen.
	if c.state.Phase != c.state.prevPhase {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevPhase = c.state.Phase
	}

	c.canvas.Clear()
	if c.state.Phase == PhasePlaying {
		ctx := c.drawContext()
		c.drawArena(ctx)
		for _, d := range []object.Drawable{
			c.match.Paddle(object.SideBottom),
			c.match.Paddle(object.SideTop),
			c.match.Ball(),
			c.fx,
		} {
			d.Draw(ctx)
		}
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	c.drawUI()
	return c.chunkWriter.Flush()
}

// drawContext centers the arena on the canvas, shifted by the camera spring.
// The spring's Z follows the arena's vertical axis and its Y (the jostle)
// shakes the view vertically too.
func (c *Client) drawContext() object.DrawContext {
	w, h := c.logicalSize()
	off := c.match.Camera().Offset()
	return object.DrawContext{
		Canvas: c.canvas,
		Origin: draw.Point{X: w / 2, Y: h / 2},
		Offset: physics.Vec2{X: off.X * shakeScale, Y: (off.Z + off.Y) * shakeScale},
	}
}

// drawArena draws the side walls, the center line, any paddle flashes and
// the goal line of a side that just conceded.
func (c *Client) drawArena(ctx object.DrawContext) {
	ax, ay := c.cfg.Match.ArenaX, c.cfg.Match.ArenaY

	for _, x := range []float64{-ax, ax} {
		ctx.Canvas.DrawLine(
			ctx.ToCanvas(physics.Vec2{X: x, Y: -ay}),
			ctx.ToCanvas(physics.Vec2{X: x, Y: ay}),
		)
	}
	for x := -ax + 0.5; x < ax; x += 2 {
		p := ctx.ToCanvas(physics.Vec2{X: x})
		ctx.Canvas.SetFloat(p.X, p.Y)
	}

	for _, side := range []object.Side{object.SideBottom, object.SideTop} {
		if c.fx.conceded(side) {
			y := ay
			if side == object.SideBottom {
				y = -y
			}
			ctx.Canvas.DrawLine(
				ctx.ToCanvas(physics.Vec2{X: -ax, Y: y}),
				ctx.ToCanvas(physics.Vec2{X: ax, Y: y}),
			)
		}
		if !c.fx.flashing(side) {
			continue
		}
		p := c.match.Paddle(side)
		y := ay - 0.5
		if side == object.SideBottom {
			y = -y
		}
		ctx.Canvas.DrawLine(
			ctx.ToCanvas(physics.Vec2{X: p.X() - p.Extents(), Y: y}),
			ctx.ToCanvas(physics.Vec2{X: p.X() + p.Extents(), Y: y}),
		)
	}
}

// text writes s at a 1-based canvas cell and marks the cells dirty so the
// canvas repaints them once the text is gone.
func (c *Client) text(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(s))
}

func (c *Client) textCentered(col, row int, s string) {
	start, width := c.chunkWriter.WriteCentered(col, row, s)
	c.canvas.MarkTextDirty(start, row, width)
}

// drawUI draws the text overlay.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth/2 + 1
	centerY := termHeight/2 + 1

	if c.state.Phase == PhaseShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	c.drawScores(termWidth, termHeight)
	if c.match.State() == match.StateCountdown {
		c.drawCountdown(centerX, centerY)
	}
}

func (c *Client) label(side object.Side) string {
	switch {
	case c.hasHuman && side == c.human:
		return c.styles.you.Render("YOU")
	case c.hasHuman:
		return c.styles.score.Render("CPU")
	default:
		return c.styles.score.Render(strings.ToUpper(side.String()))
	}
}

// drawScores draws each side's score next to its paddle and the session
// status in the opposite corners. Fields are fixed-width so shrinking
// values leave nothing behind.
func (c *Client) drawScores(termWidth, termHeight int) {
	top := fmt.Sprintf("%s %-3d", c.label(object.SideTop), c.fx.scores[object.SideTop])
	bottom := fmt.Sprintf("%s %-3d", c.label(object.SideBottom), c.fx.scores[object.SideBottom])
	c.text(2, 1, top)
	c.text(2, termHeight, bottom)

	players := c.styles.status.Render(fmt.Sprintf("Players: %-4d", c.state.Players))
	c.text(termWidth-lipgloss.Width(players), termHeight, players)

	if c.hasHuman {
		s := c.state.Standing
		record := c.styles.status.Render(fmt.Sprintf("W %-3d L %-3d", s.Wins, s.Losses))
		c.text(termWidth-lipgloss.Width(record), 1, record)
	}
}

// drawCountdown draws the title or match result and the seconds left.
func (c *Client) drawCountdown(centerX, centerY int) {
	if winner, ok := c.match.Winner(); ok {
		c.textCentered(centerX, centerY-2, c.resultText(winner))
	} else {
		c.textCentered(centerX, centerY-2, c.styles.title.Render("P A D D L E S"))
		c.textCentered(centerX, centerY+3, c.styles.hint.Render("A D / < >  move    Q  quit"))
	}

	if cd := c.fx.countdown; cd.Kind == object.CountdownValue {
		c.textCentered(centerX, centerY, c.styles.countdown.Render(fmt.Sprintf("%d", cd.Value)))
	}
}

func (c *Client) resultText(winner object.Side) string {
	if !c.hasHuman {
		return c.styles.title.Render(strings.ToUpper(winner.String()) + " WINS")
	}
	if winner == c.human {
		return c.styles.win.Render("YOU WIN")
	}
	return c.styles.lose.Render("YOU LOSE")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.textCentered(centerX, centerY-3, c.styles.warn.Render("SERVER SHUTTING DOWN"))
	c.textCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.textCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.textCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.textCentered(centerX, centerY+4, c.styles.hint.Render("Press Q to disconnect now"))
}
