package arrow

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// newPaper creates a white grayscale image.
func newPaper(width, height int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

// ink darkens the pixels of [x0,x1)x[y0,y1).
func ink(g *image.Gray, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.SetGray(x, y, color.Gray{Y: 0})
		}
	}
}

// transpose mirrors g across its main diagonal.
func transpose(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(y, x, g.GrayAt(x, y))
		}
	}
	return out
}

func swapBox(b diagram.BBox) diagram.BBox {
	return diagram.BBox{X0: b.Y0, Y0: b.X0, X1: b.Y1, Y1: b.X1}
}

func swapPoint(p diagram.Point) diagram.Point {
	return diagram.Point{X: p.Y, Y: p.X}
}

func noisePaper(seed int64, width, height int) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.Intn(256))
	}
	return g
}

func TestResolve_LeftPointingArrow(t *testing.T) {
	g := newPaper(100, 50)
	ink(g, 10, 19, 70, 21) // shaft
	ink(g, 10, 15, 20, 25) // head block on the left

	got, err := Resolve(g, diagram.BBox{X0: 10, Y0: 10, X1: 70, Y1: 30})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := diagram.ArrowEndpoints{
		Start: diagram.Point{X: 70, Y: 20},
		End:   diagram.Point{X: 10, Y: 20},
	}
	if got != want {
		t.Errorf("endpoints: got %+v, want %+v", got, want)
	}
}

// A head on the right is judged with the "mid < top && mid > bot" rule. For a
// shaft through the middle that rule never picks mid, and the taller bottom band
// pushes the choice to top. This pins the observed behaviour.
func TestResolve_RightPointingArrowUsesMirroredRule(t *testing.T) {
	g := newPaper(100, 50)
	ink(g, 10, 19, 70, 21)
	ink(g, 60, 15, 70, 25)

	got, err := Resolve(g, diagram.BBox{X0: 10, Y0: 10, X1: 70, Y1: 30})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := diagram.ArrowEndpoints{
		Start: diagram.Point{X: 10, Y: 10},
		End:   diagram.Point{X: 70, Y: 10},
	}
	if got != want {
		t.Errorf("endpoints: got %+v, want %+v", got, want)
	}
}

func TestResolve_VerticalArrow(t *testing.T) {
	g := newPaper(60, 90)
	ink(g, 29, 5, 31, 75)  // shaft
	ink(g, 25, 65, 35, 75) // head block at the bottom

	got, err := Resolve(g, diagram.BBox{X0: 20, Y0: 5, X1: 40, Y1: 75})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := diagram.ArrowEndpoints{
		Start: diagram.Point{X: 20, Y: 5},
		End:   diagram.Point{X: 20, Y: 75},
	}
	if got != want {
		t.Errorf("endpoints: got %+v, want %+v", got, want)
	}
}

func TestResolve_TieBreaks(t *testing.T) {
	box := diagram.BBox{X0: 0, Y0: 0, X1: 24, Y1: 12}

	tests := []struct {
		name  string
		paint func(g *image.Gray)
		want  diagram.ArrowEndpoints
	}{
		{
			// Equal halves put the head on the right; equal thirds fall through to bot.
			name:  "blank box",
			paint: func(g *image.Gray) {},
			want: diagram.ArrowEndpoints{
				Start: diagram.Point{X: 0, Y: 12},
				End:   diagram.Point{X: 24, Y: 12},
			},
		},
		{
			// mid is darkest but the head-right rule also needs mid > bot, and top
			// ties bot, so both points fall through to bot.
			name:  "dark middle band with equal halves",
			paint: func(g *image.Gray) { ink(g, 0, 4, 24, 8) },
			want: diagram.ArrowEndpoints{
				Start: diagram.Point{X: 0, Y: 12},
				End:   diagram.Point{X: 24, Y: 12},
			},
		},
		{
			// Same middle band, plus balanced extra ink on the left: the head moves
			// left and the head-left rule accepts the darkest middle band.
			name: "dark middle band with heavier left half",
			paint: func(g *image.Gray) {
				ink(g, 0, 4, 24, 8)
				ink(g, 2, 1, 4, 2)
				ink(g, 2, 9, 4, 10)
			},
			want: diagram.ArrowEndpoints{
				Start: diagram.Point{X: 24, Y: 6},
				End:   diagram.Point{X: 0, Y: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newPaper(40, 20)
			tt.paint(g)

			for run := 0; run < 3; run++ {
				got, err := Resolve(g, box)
				if err != nil {
					t.Fatalf("Resolve failed: %v", err)
				}
				if got != tt.want {
					t.Fatalf("run %d: got %+v, want %+v", run, got, tt.want)
				}
			}
		})
	}
}

func TestResolve_PointsOnShortEdges(t *testing.T) {
	boxes := []diagram.BBox{
		{X0: 3, Y0: 4, X1: 9, Y1: 10},
		{X0: 0, Y0: 0, X1: 40, Y1: 7},
		{X0: 10, Y0: 12, X1: 61, Y1: 29},
		{X0: 5, Y0: 1, X1: 17, Y1: 60},
		{X0: 30, Y0: 30, X1: 64, Y1: 64},
	}

	for seed := int64(1); seed <= 20; seed++ {
		g := noisePaper(seed, 70, 70)
		for _, box := range boxes {
			got, err := Resolve(g, box)
			if err != nil {
				t.Fatalf("seed %d box %s: %v", seed, box, err)
			}
			if got.Start == got.End {
				t.Errorf("seed %d box %s: start and end coincide at %+v", seed, box, got.Start)
			}
			for _, p := range []diagram.Point{got.Start, got.End} {
				if !onShortEdge(box, p) {
					t.Errorf("seed %d box %s: point %+v is not on a short edge", seed, box, p)
				}
			}
		}
	}
}

// onShortEdge reports whether p sits at the top, middle or bottom of one of the
// short edges of box.
func onShortEdge(box diagram.BBox, p diagram.Point) bool {
	if box.Height() > box.Width() {
		return onShortEdge(swapBox(box), swapPoint(p))
	}
	if p.X != box.X0 && p.X != box.X1 {
		return false
	}
	return p.Y == box.Y0 || p.Y == box.Y0+box.Height()/2 || p.Y == box.Y1
}

func TestResolve_TranspositionInvariance(t *testing.T) {
	boxes := []diagram.BBox{
		{X0: 10, Y0: 10, X1: 70, Y1: 30},
		{X0: 2, Y0: 5, X1: 14, Y1: 50},
		{X0: 0, Y0: 0, X1: 79, Y1: 6},
	}

	for seed := int64(1); seed <= 10; seed++ {
		g := noisePaper(seed, 80, 60)
		gt := transpose(g)
		for _, box := range boxes {
			orig, err := Resolve(g, box)
			if err != nil {
				t.Fatalf("seed %d box %s: %v", seed, box, err)
			}
			rot, err := Resolve(gt, swapBox(box))
			if err != nil {
				t.Fatalf("seed %d transposed box %s: %v", seed, swapBox(box), err)
			}
			if rot.Start != swapPoint(orig.Start) || rot.End != swapPoint(orig.End) {
				t.Errorf("seed %d box %s: transposed result %+v, want swapped %+v", seed, box, rot, orig)
			}
		}
	}
}

func TestResolve_SquareBoxIsTreatedAsWide(t *testing.T) {
	box := diagram.BBox{X0: 0, Y0: 0, X1: 30, Y1: 30}
	g := newPaper(30, 30)
	// A dark top band reads as a vertical arrow, but a square box keeps its
	// orientation: the halves tie, so the head is on the right.
	ink(g, 0, 0, 30, 10)

	if newView(g, box).transposed {
		t.Fatal("square box should not be transposed")
	}

	got, err := Resolve(g, box)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := diagram.ArrowEndpoints{
		Start: diagram.Point{X: 0, Y: 0},
		End:   diagram.Point{X: 30, Y: 0},
	}
	if got != want {
		t.Errorf("endpoints: got %+v, want %+v", got, want)
	}

	// The transposed drawing is read as a horizontal arrow too, so the result
	// is not the swapped one.
	got, err = Resolve(transpose(g), box)
	if err != nil {
		t.Fatalf("Resolve on transposed image failed: %v", err)
	}
	want = diagram.ArrowEndpoints{
		Start: diagram.Point{X: 30, Y: 30},
		End:   diagram.Point{X: 0, Y: 30},
	}
	if got != want {
		t.Errorf("transposed endpoints: got %+v, want %+v", got, want)
	}
}

func TestResolve_ThirdsAreRowBands(t *testing.T) {
	g := newPaper(40, 20)
	// Ink fills the middle row band of the left half. Split into column slices
	// instead, all three thirds would tie and fall through to the bottom.
	ink(g, 0, 4, 12, 8)

	got, err := Resolve(g, diagram.BBox{X0: 0, Y0: 0, X1: 24, Y1: 12})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := diagram.ArrowEndpoints{
		Start: diagram.Point{X: 24, Y: 12},
		End:   diagram.Point{X: 0, Y: 6},
	}
	if got != want {
		t.Errorf("endpoints: got %+v, want %+v", got, want)
	}
}

func TestResolve_InvalidGeometry(t *testing.T) {
	g := newPaper(50, 50)

	tests := []struct {
		name string
		box  diagram.BBox
	}{
		{"too narrow", diagram.BBox{X0: 0, Y0: 0, X1: 5, Y1: 30}},
		{"too short", diagram.BBox{X0: 0, Y0: 0, X1: 30, Y1: 5}},
		{"empty", diagram.BBox{X0: 10, Y0: 10, X1: 10, Y1: 10}},
		{"inverted", diagram.BBox{X0: 30, Y0: 30, X1: 10, Y1: 10}},
		{"outside image", diagram.BBox{X0: 60, Y0: 60, X1: 90, Y1: 90}},
		{"mostly clipped", diagram.BBox{X0: 46, Y0: 0, X1: 90, Y1: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(g, tt.box)
			if !errors.Is(err, diagram.ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestResolve_ClipsToImage(t *testing.T) {
	g := newPaper(40, 20)

	got, err := Resolve(g, diagram.BBox{X0: 16, Y0: -8, X1: 60, Y1: 12})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Clipped box is (16,0)-(40,12), a blank 24x12 region.
	want := diagram.ArrowEndpoints{
		Start: diagram.Point{X: 16, Y: 12},
		End:   diagram.Point{X: 40, Y: 12},
	}
	if got != want {
		t.Errorf("endpoints: got %+v, want %+v", got, want)
	}
}

func TestGrayscale(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			rgba.Set(x, y, color.White)
		}
	}
	rgba.Set(1, 1, color.Black)

	g := Grayscale(rgba)
	if g.Bounds() != rgba.Bounds() {
		t.Fatalf("bounds: got %v, want %v", g.Bounds(), rgba.Bounds())
	}
	if v := g.GrayAt(1, 1).Y; v != 0 {
		t.Errorf("black pixel: got %d, want 0", v)
	}
	if v := g.GrayAt(0, 0).Y; v < 250 {
		t.Errorf("white pixel: got %d, want ~255", v)
	}

	// BT.601 luma, rounded the way 8-bit converters round: pure red is 76, pure
	// blue is 29.
	rgba.Set(2, 2, color.RGBA{255, 0, 0, 255})
	rgba.Set(3, 3, color.RGBA{0, 0, 255, 255})
	g = Grayscale(rgba)
	if v := g.GrayAt(2, 2).Y; v != 76 {
		t.Errorf("red pixel: got %d, want 76", v)
	}
	if v := g.GrayAt(3, 3).Y; v != 29 {
		t.Errorf("blue pixel: got %d, want 29", v)
	}

	same := newPaper(3, 3)
	if Grayscale(same) != same {
		t.Error("Grayscale should return *image.Gray input unchanged")
	}
}
