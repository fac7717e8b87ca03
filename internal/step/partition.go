package step

import (
	"github.com/san-kum/rbsolve/internal/constraint"
	"github.com/san-kum/rbsolve/internal/rigid"
)

// colorRows partitions rows into colour classes such that no two rows in
// the same class share a body handle, so every class can run its rows
// concurrently without two goroutines touching the same body at once: the
// solver is Gauss-Seidel per colour, Jacobi across colours. It is a
// greedy first-fit graph colouring: cheap, deterministic given row order,
// and good enough since rows rarely form dense conflict graphs.
func colorRows(rows []constraint.Row) [][]int {
	colorsOf := make(map[rigid.Handle]map[int]bool)
	rowColor := make([]int, len(rows))
	numColors := 0

	for i, r := range rows {
		b1, b2 := r.Bodies()
		forbidden := map[int]bool{}
		for _, h := range [2]rigid.Handle{b1, b2} {
			for c := range colorsOf[h] {
				forbidden[c] = true
			}
		}

		color := 0
		for forbidden[color] {
			color++
		}
		rowColor[i] = color
		if color+1 > numColors {
			numColors = color + 1
		}

		for _, h := range [2]rigid.Handle{b1, b2} {
			if colorsOf[h] == nil {
				colorsOf[h] = map[int]bool{}
			}
			colorsOf[h][color] = true
		}
	}

	classes := make([][]int, numColors)
	for i, c := range rowColor {
		classes[c] = append(classes[c], i)
	}
	return classes
}
