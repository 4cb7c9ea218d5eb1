package render

import (
	"image"
	"image/color"
	"math"
)

// stamp paints a t×t square brush at (x, y). For even t the brush reaches one
// pixel further up and left than down and right.
func stamp(dst *image.NRGBA, x, y, t int, c color.NRGBA) {
	lo := -(t / 2)
	hi := lo + t - 1
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			dst.SetNRGBA(x+dx, y+dy, c)
		}
	}
}

// strokeLine draws a line from a to b with Bresenham's algorithm, stamping the
// brush at every step.
func strokeLine(dst *image.NRGBA, a, b image.Point, t int, c color.NRGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	x, y := a.X, a.Y
	e := dx + dy
	for {
		stamp(dst, x, y, t, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// strokePolygon draws the closed outline through pts.
func strokePolygon(dst *image.NRGBA, pts []image.Point, t int, c color.NRGBA) {
	for i := range pts {
		strokeLine(dst, pts[i], pts[(i+1)%len(pts)], t, c)
	}
}

// strokeRect draws the outline of r with the stroke lying inside the corners, so
// that no pixel falls outside [Min, Max] inclusive.
func strokeRect(dst *image.NRGBA, r image.Rectangle, t int, c color.NRGBA) {
	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	fill(x0, y0, x1, min(y0+t-1, y1))
	fill(x0, max(y1-t+1, y0), x1, y1)
	fill(x0, y0, min(x0+t-1, x1), y1)
	fill(max(x1-t+1, x0), y0, x1, y1)
}

// strokeEllipse draws the full outline of the axis-aligned ellipse centred at
// center with radii rx and ry.
func strokeEllipse(dst *image.NRGBA, center image.Point, rx, ry, t int, c color.NRGBA) {
	if rx == 0 || ry == 0 {
		strokeLine(dst, center.Sub(image.Pt(rx, ry)), center.Add(image.Pt(rx, ry)), t, c)
		return
	}

	steps := max(64, 4*(rx+ry))
	prev := center.Add(image.Pt(rx, 0))
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		p := image.Pt(
			center.X+int(math.Round(float64(rx)*math.Cos(a))),
			center.Y+int(math.Round(float64(ry)*math.Sin(a))),
		)
		strokeLine(dst, prev, p, t, c)
		prev = p
	}
}

// arrowTip is the arrowhead wing length as a fraction of the shaft length.
const arrowTip = 0.1

// strokeArrow draws a shaft from tail to head with two wings at head, each at
// 45 degrees to the shaft.
func strokeArrow(dst *image.NRGBA, tail, head image.Point, t int, c color.NRGBA) {
	strokeLine(dst, tail, head, t, c)

	dx := float64(tail.X - head.X)
	dy := float64(tail.Y - head.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	tip := arrowTip * length
	angle := math.Atan2(dy, dx)
	for _, wing := range []float64{angle + math.Pi/4, angle - math.Pi/4} {
		p := image.Pt(
			head.X+int(math.Round(tip*math.Cos(wing))),
			head.Y+int(math.Round(tip*math.Sin(wing))),
		)
		strokeLine(dst, head, p, t, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
