package catalog

import "math"

func (z *Zone) height() float64 {
	if z.Height > 0 {
		return z.Height
	}
	return z.Width
}

// Contains reports whether (x, y) falls inside the zone rectangle.
func (z *Zone) Contains(x, y float64) bool {
	if z.Width <= 0 {
		return false
	}
	halfW, halfH := z.Width/2, z.height()/2
	return x >= z.X-halfW && x <= z.X+halfW && y >= z.Y-halfH && y <= z.Y+halfH
}

// ZoneAt returns the containing zone whose centre is closest to (x, y), or the
// nearest zone overall when none contains the point. Nil only without zones.
func (c *Catalog) ZoneAt(x, y float64) *Zone {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return nil
	}
	var inside, nearest *Zone
	insideDist, nearestDist := math.Inf(1), math.Inf(1)
	for i := range c.Zones {
		z := &c.Zones[i]
		d := math.Hypot(x-z.X, y-z.Y)
		if z.Contains(x, y) && d < insideDist {
			inside, insideDist = z, d
		}
		if d < nearestDist {
			nearest, nearestDist = z, d
		}
	}
	if inside != nil {
		return inside
	}
	return nearest
}
