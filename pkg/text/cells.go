package text

import (
	"github.com/mattn/go-runewidth"
)

// CellMeasurer measures text in terminal cells: East Asian wide runes take
// two columns and every line is one row, whatever the font size.
//
// CellWidth and CellHeight scale a cell into layout units so that pages
// keep their pixel margins; zero means one unit per cell.
type CellMeasurer struct {
	CellWidth  float64
	CellHeight float64
}

func (m CellMeasurer) Measure(s string, _ FaceSpec) (float64, float64) {
	w, h := m.cell()
	return float64(runewidth.StringWidth(s)) * w, h
}

func (m CellMeasurer) cell() (float64, float64) {
	w, h := m.CellWidth, m.CellHeight
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}
