package viewer

import (
	"image"
	"image/color"
	"math"
)

// vertex is a projected corner: screen position plus depth
type vertex struct {
	x, y, z float64
}

// fillTriangleWithDepth rasterises a triangle into img, writing only pixels
// that are closer than what zbuffer already holds. Pixels are sampled at
// their centres; both windings are filled.
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, a, b, c vertex, col color.RGBA) {
	area := edge(a, b, c.x, c.y)
	if area == 0 || !finite(area, a.z, b.z, c.z) {
		return
	}

	bounds := img.Bounds()
	width := bounds.Dx()

	minX := int(math.Max(float64(bounds.Min.X), math.Floor(math.Min(a.x, math.Min(b.x, c.x)))))
	maxX := int(math.Min(float64(bounds.Max.X-1), math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))))
	minY := int(math.Max(float64(bounds.Min.Y), math.Floor(math.Min(a.y, math.Min(b.y, c.y)))))
	maxY := int(math.Min(float64(bounds.Max.Y-1), math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			// Barycentric weights, normalised so the winding does not matter
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			idx := (y-bounds.Min.Y)*width + (x - bounds.Min.X)
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// finite reports whether none of the values is NaN or infinite
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// edge is twice the signed area of the triangle (p, q, (x, y))
func edge(p, q vertex, x, y float64) float64 {
	return (q.x-p.x)*(y-p.y) - (q.y-p.y)*(x-p.x)
}

// shade scales a base colour by a light intensity in [0, 1]
func shade(base color.RGBA, intensity float64) color.RGBA {
	intensity = math.Max(0, math.Min(1, intensity))
	return color.RGBA{
		R: uint8(float64(base.R) * intensity),
		G: uint8(float64(base.G) * intensity),
		B: uint8(float64(base.B) * intensity),
		A: 255,
	}
}
