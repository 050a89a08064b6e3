package led

// Matrix maps a columns x rows grid onto a single LED strip.
type Matrix struct {
	Columns    int
	Rows       int
	Serpentine bool // every odd row runs right to left
}

// Index maps x,y (y=0 is the top row) to the strip position.
func (m Matrix) Index(x, y int) int {
	xx := x
	if m.Serpentine && y%2 == 1 {
		xx = m.Columns - 1 - x
	}
	return y*m.Columns + xx
}

func (m Matrix) Count() int { return m.Columns * m.Rows }
