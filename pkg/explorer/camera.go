package explorer

import (
	"math"

	"github.com/jwebster45206/atlas-engine/pkg/tuning"
)

// Camera keeps a viewport over a larger world centred on the surveyor. Offsets are
// measured from the centred position and clamped so the viewport never leaves the world.
type Camera struct {
	WorldW, WorldH       float64
	ViewportW, ViewportH float64
	OffsetX, OffsetY     float64
	Manual               bool

	lerp, snap float64
}

// NewCamera returns a camera following the surveyor.
func NewCamera(t tuning.Camera, worldW, worldH, viewW, viewH float64) *Camera {
	return &Camera{
		WorldW: worldW, WorldH: worldH,
		ViewportW: viewW, ViewportH: viewH,
		lerp: t.Lerp, snap: t.Snap,
	}
}

// Resize changes the viewport and re-clamps the current offsets.
func (c *Camera) Resize(viewW, viewH float64) {
	c.ViewportW, c.ViewportH = viewW, viewH
	mx, my := c.limits()
	c.OffsetX = clamp(c.OffsetX, -mx, mx)
	c.OffsetY = clamp(c.OffsetY, -my, my)
}

func (c *Camera) limits() (float64, float64) {
	return math.Max(0, (c.WorldW-c.ViewportW)/2), math.Max(0, (c.WorldH-c.ViewportH)/2)
}

// Follow eases the camera toward the surveyor at map position (x, y). With immediate
// set it jumps. A manual camera holds its position.
func (c *Camera) Follow(x, y float64, immediate bool) {
	if c.Manual {
		return
	}
	c.moveTo(c.centreOn(x, y), immediate)
}

// Recenter leaves manual mode and jumps back onto the surveyor.
func (c *Camera) Recenter(x, y float64) {
	c.Manual = false
	c.moveTo(c.centreOn(x, y), true)
}

// Pan shifts the view by (dx, dy) world units and switches to manual mode.
func (c *Camera) Pan(dx, dy float64) {
	mx, my := c.limits()
	c.Manual = true
	c.OffsetX = clamp(c.OffsetX-dx, -mx, mx)
	c.OffsetY = clamp(c.OffsetY-dy, -my, my)
}

func (c *Camera) centreOn(x, y float64) Point {
	mx, my := c.limits()
	tx := x / 100 * c.WorldW
	ty := y / 100 * c.WorldH
	return Point{
		X: clamp(c.WorldW/2-tx, -mx, mx),
		Y: clamp(c.WorldH/2-ty, -my, my),
	}
}

func (c *Camera) moveTo(p Point, immediate bool) {
	if immediate {
		c.OffsetX, c.OffsetY = p.X, p.Y
		return
	}
	nx := c.OffsetX + (p.X-c.OffsetX)*c.lerp
	ny := c.OffsetY + (p.Y-c.OffsetY)*c.lerp
	if math.Abs(nx-p.X) < c.snap {
		nx = p.X
	}
	if math.Abs(ny-p.Y) < c.snap {
		ny = p.Y
	}
	c.OffsetX, c.OffsetY = nx, ny
}

// Origin returns the world coordinate shown at the viewport's top-left corner.
func (c *Camera) Origin() (float64, float64) {
	return (c.WorldW-c.ViewportW)/2 - c.OffsetX, (c.WorldH-c.ViewportH)/2 - c.OffsetY
}
