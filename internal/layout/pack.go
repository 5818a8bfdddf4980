// Package layout computes and persists the physical shelf arrangement.
// Books arrive grouped by classification; groups are packed left to
// right into rows so that books sharing a classification sit together.
package layout

// Book is the minimal projection needed for shelving.
type Book struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Cover string `json:"cover"`
}

// Group is one classification bucket in display order.
type Group struct {
	NDC   string `json:"ndc"`
	Books []Book `json:"books"`
}

// Position is one placed book. Row and Col are zero based.
type Position struct {
	ISBN string `json:"isbn"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// Pack assigns a shelf position to every book, walking the groups in
// order with a row/column cursor. A group that does not fit in the
// remainder of the current row starts a fresh row, unless the current
// row is still empty, in which case it starts there and wraps at
// capacity. Duplicate ISBNs across groups keep their first placement.
func Pack(groups []Group, booksPerShelf int) []Position {
	if booksPerShelf < 1 {
		booksPerShelf = 1
	}

	var positions []Position
	seen := make(map[string]bool)
	row, col := 0, 0

	for _, group := range groups {
		fresh := make([]Book, 0, len(group.Books))
		for _, b := range group.Books {
			if !seen[b.ISBN] {
				fresh = append(fresh, b)
			}
		}
		if len(fresh) == 0 {
			continue
		}

		if len(fresh) > booksPerShelf-col && col > 0 {
			row++
			col = 0
		}

		for _, b := range fresh {
			positions = append(positions, Position{ISBN: b.ISBN, Row: row, Col: col})
			seen[b.ISBN] = true
			col++
			if col >= booksPerShelf {
				row++
				col = 0
			}
		}
	}
	return positions
}
