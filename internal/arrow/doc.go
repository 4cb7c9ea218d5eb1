// Package arrow resolves the direction of a detected arrow from the ink inside its
// bounding box.
//
// The detector only reports a box around an arrow. Resolve inspects the grayscale
// pixels inside that box and decides which short edge carries the arrowhead and
// where along each short edge the line touches the box.
//
// # Algorithm
//
// The box is normalised so that its long axis is horizontal (a tall box is read
// through a transposed view). The view is then bisected into a left and a right
// half. Ink is dark, so the half with the lower intensity sum holds the head. Each
// half is trisected into top, middle and bottom row bands and the band sums choose
// the touching point on that half's outer edge:
//
//	head on the left:  mid if mid < top && mid < bot, else top if top < bot, else bot
//	head on the right: mid if mid < top && mid > bot, else top if top < bot, else bot
//
// Both halves of a branch use that branch's rule. The two rules differ on purpose
// and all comparisons are strict, so exact ties fall through to "bot". Equal half
// sums put the head on the right.
//
// The chosen points are mapped back through the transposition, if any, and returned
// as tail (Start) and head (End).
package arrow
