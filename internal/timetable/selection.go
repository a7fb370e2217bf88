package timetable

// SelectedCell is one clicked cell tracked by the selection.
type SelectedCell struct {
	Index int
	Class string
}

// Selection holds up to two clicked cells of the same class, pending an
// explicit swap action.
type Selection struct {
	cells []SelectedCell
}

// Cells returns the currently selected cells in click order.
func (s Selection) Cells() []SelectedCell {
	out := make([]SelectedCell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Count returns how many cells are selected.
func (s Selection) Count() int {
	return len(s.cells)
}

// Contains reports whether the grid index is currently selected.
func (s Selection) Contains(index int) bool {
	for _, cell := range s.cells {
		if cell.Index == index {
			return true
		}
	}
	return false
}

// ToggleSelect handles one click on a grid cell. Clicking a selected cell
// deselects it. A first click always selects; a second click selects only a
// cell of the same class; any further click is ignored until something is
// deselected. Returns whether the selection changed.
func (e *Editor) ToggleSelect(index int) bool {
	cell, ok := e.Grid.CellAt(index)
	if !ok {
		return false
	}

	for i, selected := range e.Selection.cells {
		if selected.Index == index {
			e.Selection.cells = append(e.Selection.cells[:i], e.Selection.cells[i+1:]...)
			return true
		}
	}

	switch len(e.Selection.cells) {
	case 0:
		e.Selection.cells = append(e.Selection.cells, SelectedCell{Index: index, Class: cell.Class})
		return true
	case 1:
		if e.Selection.cells[0].Class != cell.Class {
			return false
		}
		e.Selection.cells = append(e.Selection.cells, SelectedCell{Index: index, Class: cell.Class})
		return true
	default:
		return false
	}
}

// SwapSelected exchanges the assignments of the two selected cells and clears
// the selection. It is a no-op unless exactly two cells are selected.
func (e *Editor) SwapSelected() bool {
	if len(e.Selection.cells) != 2 {
		return false
	}
	first, second := e.Selection.cells[0].Index, e.Selection.cells[1].Index
	a, okA := e.Grid.CellAt(first)
	b, okB := e.Grid.CellAt(second)
	if !okA || !okB {
		e.Selection = Selection{}
		return false
	}
	e.Grid.Cells[first].setContent(b.Content())
	e.Grid.Cells[second].setContent(a.Content())
	e.Selection = Selection{}
	return true
}

// ClearSelection drops any pending selection.
func (e *Editor) ClearSelection() {
	e.Selection = Selection{}
}
