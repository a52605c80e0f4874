package gpc

import "fmt"

// Table enumerates the cells of a rows×cols grid and maps each (a, b) pair to a
// unique linear index and back. A Table is immutable after NewTable returns.
type Table struct {
	rows     int
	cols     int
	index    []int32    // a*cols+b -> linear index
	elements [][2]int32 // linear index -> (a, b)
}

// NewTable builds the lookup arrays for a rows×cols grid.
//
// With diagonal set, cells are numbered along anti-diagonals (a+b ascending),
// a ascending within one diagonal. Otherwise the numbering is row-major.
func NewTable(rows, cols int, diagonal bool) *Table {
	t := &Table{
		rows:     rows,
		cols:     cols,
		index:    make([]int32, rows*cols),
		elements: make([][2]int32, 0, rows*cols),
	}

	if !diagonal {
		for a := 0; a < rows; a++ {
			for b := 0; b < cols; b++ {
				t.push(a, b)
			}
		}
		return t
	}

	for s := 0; s <= rows+cols-2; s++ {
		for a := max(0, s-cols+1); a <= min(rows-1, s); a++ {
			t.push(a, s-a)
		}
	}
	return t
}

func (t *Table) push(a, b int) {
	t.index[a*t.cols+b] = int32(len(t.elements))
	t.elements = append(t.elements, [2]int32{int32(a), int32(b)})
}

// Rows returns the size of the first dimension.
func (t *Table) Rows() int { return t.rows }

// Cols returns the size of the second dimension.
func (t *Table) Cols() int { return t.cols }

// Len returns the number of cells.
func (t *Table) Len() int { return len(t.elements) }

// IndexOf returns the linear index of cell (a, b).
func (t *Table) IndexOf(a, b int) (int, error) {
	if a < 0 || a >= t.rows || b < 0 || b >= t.cols {
		return 0, fmt.Errorf("%w: cell (%d, %d) outside %dx%d", ErrIndexOutOfRange, a, b, t.rows, t.cols)
	}
	return int(t.index[a*t.cols+b]), nil
}

// ElementsAt returns the cell stored at a linear index.
func (t *Table) ElementsAt(index int) (a, b int, err error) {
	if index < 0 || index >= len(t.elements) {
		return 0, 0, fmt.Errorf("%w: index %d outside [0, %d)", ErrIndexOutOfRange, index, len(t.elements))
	}
	e := t.elements[index]
	return int(e[0]), int(e[1]), nil
}
