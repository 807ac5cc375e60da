package suika

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-suika/internal/core"
)

const (
	hudHeight   = 2
	legendWidth = 16

	gameOverBoxW = 24
)

// viewport maps world coordinates onto screen cells. Terminal cells are
// about twice as tall as wide, so one cell covers 2*scale world units
// vertically and scale horizontally.
type viewport struct {
	originX int
	originY int
	scale   float64 // world units per column
	cols    int
	rows    int
}

func (v viewport) toScreen(p core.Vec) (int, int) {
	x := v.originX + int(math.Floor(p.X/v.scale))
	y := v.originY + int(math.Floor(p.Y/(2*v.scale)))
	return x, y
}

// toWorld returns the world position of a cell center.
func (v viewport) toWorld(x, y int) core.Vec {
	return core.V(
		(float64(x-v.originX)+0.5)*v.scale,
		(float64(y-v.originY)+0.5)*2*v.scale,
	)
}

// layout fits the container into the screen below the HUD, leaving room
// for the tier legend when it fits.
func (g *Game) layout() viewport {
	ct := g.cfg.Container
	availW := g.screenW
	if availW-legendWidth >= minScreenW {
		availW -= legendWidth
	}
	availH := g.screenH - hudHeight - 1

	scale := math.Max(ct.Width/float64(availW), ct.Height/(2*float64(availH)))
	cols := int(math.Ceil(ct.Width / scale))
	rows := int(math.Ceil(ct.Height / (2 * scale)))

	return viewport{
		originX: (availW - cols) / 2,
		originY: hudHeight,
		scale:   scale,
		cols:    cols,
		rows:    rows,
	}
}

// Render draws the current game state to the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.session == nil {
		return
	}

	vp := g.layout()
	g.renderHUD(dst)
	g.renderContainer(dst, vp)
	g.renderGuide(dst, vp)
	g.renderPieces(dst, vp)
	g.renderLegend(dst, vp)
	g.renderOverlays(dst)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorYellow)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minScreenW, minScreenH), core.ColorGray)
}

func (g *Game) renderHUD(dst *core.Screen) {
	st := g.session.Stats()
	dst.DrawTextColor(1, 0, g.title, core.ColorCyan)

	score := fmt.Sprintf("Score: %d", st.Score)
	dst.DrawTextColor(g.screenW-len(score)-1, 0, score, core.ColorBrightYellow)

	info := fmt.Sprintf("Merges: %d  Drops: %d", st.Merges, st.Drops)
	if st.MaxTier >= 0 && st.MaxTier < len(g.tiers) {
		info += "  Best: " + g.tiers[st.MaxTier].Name
	}
	dst.DrawTextColor(1, 1, info, core.ColorGray)
}

func (g *Game) renderContainer(dst *core.Screen, vp viewport) {
	ct := g.cfg.Container

	lx, _ := vp.toScreen(core.V(ct.LeftBound, 0))
	rx, _ := vp.toScreen(core.V(ct.RightBound, 0))
	_, floorY := vp.toScreen(core.V(0, ct.FloorY))
	_, topY := vp.toScreen(core.V(0, ct.TopLineY))

	dst.DrawVLine(lx-1, vp.originY, floorY-vp.originY, '│', core.ColorGray)
	dst.DrawVLine(rx, vp.originY, floorY-vp.originY, '│', core.ColorGray)
	dst.DrawHLine(lx-1, floorY, rx-lx+2, '─', core.ColorGray)
	dst.SetColor(lx-1, floorY, '└', core.ColorGray)
	dst.SetColor(rx, floorY, '┘', core.ColorGray)

	for x := lx; x < rx; x += 2 {
		dst.SetColor(x, topY, '╌', core.ColorRed)
	}
}

// renderGuide draws a dotted line under the pending piece.
func (g *Game) renderGuide(dst *core.Screen, vp viewport) {
	id, tier, ok := g.session.Active()
	if !ok {
		return
	}
	pos, ok := g.world.Position(id)
	if !ok {
		return
	}

	x, y := vp.toScreen(pos)
	_, bottom := vp.toScreen(core.V(0, pos.Y+tier.Radius))
	_, floorY := vp.toScreen(core.V(0, g.cfg.Container.FloorY))
	if bottom < y {
		bottom = y
	}
	for row := bottom + 1; row < floorY; row += 2 {
		dst.SetColor(x, row, '┊', core.ColorGray)
	}
}

func (g *Game) renderPieces(dst *core.Screen, vp viewport) {
	for _, b := range g.world.Bodies() {
		if b.Tag.Kind != KindPiece || b.Tag.Value < 0 || b.Tag.Value >= len(g.tiers) {
			continue
		}
		tier := g.tiers[b.Tag.Value]

		x0, y0 := vp.toScreen(b.Min())
		x1, y1 := vp.toScreen(b.Max())
		drawn := false
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if vp.toWorld(x, y).Sub(b.Pos).Len() > b.Radius {
					continue
				}
				dst.SetColor(x, y, tier.Glyph, tier.Color)
				drawn = true
			}
		}
		// Pieces smaller than a cell still show up.
		if !drawn {
			cx, cy := vp.toScreen(b.Pos)
			dst.SetColor(cx, cy, tier.Glyph, tier.Color)
		}
	}
}

func (g *Game) renderLegend(dst *core.Screen, vp viewport) {
	x := vp.originX + vp.cols + 2
	if x+legendWidth > g.screenW+1 {
		return
	}

	dst.DrawTextColor(x, vp.originY, "Tiers", core.ColorWhite)
	for i, t := range g.tiers {
		y := vp.originY + 1 + i
		if y >= g.screenH {
			break
		}
		dst.SetColor(x, y, t.Glyph, t.Color)
		dst.DrawTextColor(x+2, y, t.Name, core.ColorGray)
	}
}

func (g *Game) renderOverlays(dst *core.Screen) {
	mid := g.screenH / 2
	switch {
	case g.session.Terminal():
		box := core.NewRect((g.screenW-gameOverBoxW)/2, mid-2, gameOverBoxW, 5)
		for y := box.Y; y < box.Bottom(); y++ {
			dst.DrawHLine(box.X, y, box.W, ' ', core.ColorDefault)
		}
		dst.DrawBox(box, core.ColorBrightRed)
		dst.DrawTextCentered(mid-1, " GAME OVER ", core.ColorBrightRed)
		dst.DrawTextCentered(mid, fmt.Sprintf(" Score: %d ", g.session.Stats().Score), core.ColorBrightYellow)
		dst.DrawTextCentered(mid+1, " R restart  B back ", core.ColorGray)
	case g.paused:
		dst.DrawTextCentered(mid, " PAUSED ", core.ColorBrightYellow)
	}
}
