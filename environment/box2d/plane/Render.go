package plane

import (
	"fmt"
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"

	"github.com/samuelfneumann/spherenav/environment/navigation"
)

// PixelsPerUnit is the scale at which a World is rendered
const PixelsPerUnit float64 = 16

var (
	floorColour    = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	wallColour     = color.RGBA{R: 255, G: 166, B: 0, A: 255}
	obstacleColour = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	targetColour   = color.RGBA{R: 60, G: 200, B: 90, A: 255}
	agentColour    = color.RGBA{R: 128, G: 102, B: 230, A: 255}
)

// worldToPixelCoord converts Box2D coordinates to pixel coordinates of
// an image of the arena seen from above, with Z increasing upward
func (w *World) worldToPixelCoord(v box2d.B2Vec2) (float64, float64) {
	extent := w.config.ArenaHalfSize + 2*WallThickness
	return (v.X + extent) * PixelsPerUnit, (extent - v.Y) * PixelsPerUnit
}

// Render draws the World from above and saves it as a PNG to path
func (w *World) Render(path string) error {
	extent := w.config.ArenaHalfSize + 2*WallThickness
	size := int(2 * extent * PixelsPerUnit)

	dc := gg.NewContext(size, size)
	dc.SetColor(floorColour)
	dc.Clear()

	for _, b := range w.bodies {
		info := b.GetUserData().(*bodyInfo)
		switch {
		case b == w.agent:
			continue
		case info.category == navigation.Wall:
			dc.SetColor(wallColour)
		case info.category == navigation.Obstacle:
			dc.SetColor(obstacleColour)
		case info.category == navigation.Target:
			dc.SetColor(targetColour)
		default:
			continue
		}
		w.drawBody(dc, b)
	}

	// The agent is drawn last so that it is visible inside the target
	dc.SetColor(agentColour)
	w.drawBody(dc, w.agent)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// drawBody fills every fixture of b in the current colour
func (w *World) drawBody(dc *gg.Context, b *box2d.B2Body) {
	for fix := b.GetFixtureList(); fix != nil; fix = fix.M_next {
		dc.ClearPath()

		switch shape := fix.M_shape.(type) {
		case *box2d.B2CircleShape:
			centre := box2d.B2TransformVec2Mul(b.M_xf, shape.M_p)
			x, y := w.worldToPixelCoord(centre)
			dc.DrawCircle(x, y, shape.M_radius*PixelsPerUnit)

		case *box2d.B2PolygonShape:
			for i := 0; i < shape.M_count; i++ {
				vertex := box2d.B2TransformVec2Mul(b.M_xf, shape.M_vertices[i])
				dc.LineTo(w.worldToPixelCoord(vertex))
			}
			dc.ClosePath()
		}

		dc.Fill()
	}
}
