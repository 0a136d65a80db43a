package sat

import(
	"fmt"
	"image"
)

// A Region is a pixel rectangle plus the table's stats for exactly that rectangle.
type Region struct {
	X, Y, W, H int
	Stats
}

func NewRegion(t *Table, x, y, w, h int) Region {
	return Region{
		X: x, Y: y, W: w, H: h,
		Stats: t.Query(x, y, x+w-1, y+h-1),
	}
}

func (r Region)Area() int               { return r.W * r.H }
func (r Region)Rect() image.Rectangle   { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }
func (r Region)IsDegenerate() bool      { return r.W <= 0 || r.H <= 0 }

// SplitW cuts the region into a left part `cut` pixels wide, and the rest.
func (r Region)SplitW(t *Table, cut int) (Region, Region) {
	return NewRegion(t, r.X, r.Y, cut, r.H), NewRegion(t, r.X+cut, r.Y, r.W-cut, r.H)
}

// SplitH cuts the region into a top part `cut` pixels high, and the rest.
func (r Region)SplitH(t *Table, cut int) (Region, Region) {
	return NewRegion(t, r.X, r.Y, r.W, cut), NewRegion(t, r.X, r.Y+cut, r.W, r.H-cut)
}

func (r Region)String() string {
	return fmt.Sprintf("region(%d,%d %dx%d) %s", r.X, r.Y, r.W, r.H, r.Stats)
}
