package timetable

// TransferSource identifies where a dragged payload originated.
type TransferSource int

const (
	// TransferSourceUnknown marks a descriptor that was never populated.
	TransferSourceUnknown TransferSource = iota
	// TransferFromGrid marks a payload lifted from a grid cell.
	TransferFromGrid
	// TransferFromSwapBox marks a payload lifted from the swap box.
	TransferFromSwapBox
)

// Transfer is the typed descriptor carried by a single drag gesture. Index is
// a grid index for TransferFromGrid and a position within the class's swap
// box list for TransferFromSwapBox.
type Transfer struct {
	Source  TransferSource
	Class   string
	Index   int
	Content CellContent
}

// SwapEntry is a cell parked in the swap box, tagged with the grid index it
// was removed from.
type SwapEntry struct {
	Content       CellContent
	OriginalIndex int
}

// SwapBox stages cells removed from the grid, keyed by class, until they are
// placed back or discarded.
type SwapBox map[string][]SwapEntry

// Size reports the total number of staged entries across all classes.
func (b SwapBox) Size() int {
	total := 0
	for _, entries := range b {
		total += len(entries)
	}
	return total
}

// Editor is the complete editing state for one timetable: the dense grid, the
// swap box, and the click selection. All gesture handlers mutate it in place;
// invalid gestures leave it untouched.
type Editor struct {
	Grid      Grid
	Box       SwapBox
	Selection Selection
}

// NewEditor materializes the stored records and opens a fresh editing state.
func NewEditor(records []Cell) *Editor {
	return &Editor{
		Grid: Materialize(records),
		Box:  make(SwapBox),
	}
}

// RemoveToSwapBox stages the cell at the descriptor's grid index into the
// swap box and blanks the grid cell. Malformed descriptors (wrong source,
// class mismatch, index out of range) are ignored: a corrupted drag payload
// must never crash the editor. The return value reports whether the grid
// changed.
func (e *Editor) RemoveToSwapBox(transfer Transfer) bool {
	if transfer.Source != TransferFromGrid {
		return false
	}
	cell, ok := e.Grid.CellAt(transfer.Index)
	if !ok || cell.Class != transfer.Class {
		return false
	}
	if e.Box == nil {
		e.Box = make(SwapBox)
	}
	e.Box[cell.Class] = append(e.Box[cell.Class], SwapEntry{
		Content:       cell.Content(),
		OriginalIndex: transfer.Index,
	})
	e.Grid.Cells[transfer.Index].clearContent()
	return true
}

// PlaceAt drops the transferred payload onto the empty cell at targetIndex.
// The target must belong to the payload's class and must be unassigned. On
// success the payload's origin is drained: a grid origin is blanked, a swap
// box origin is removed from its class list. Returns whether the placement
// happened.
func (e *Editor) PlaceAt(targetIndex int, transfer Transfer) bool {
	target, ok := e.Grid.CellAt(targetIndex)
	if !ok {
		return false
	}
	if target.Class != transfer.Class || !target.Empty() {
		return false
	}

	switch transfer.Source {
	case TransferFromGrid:
		origin, ok := e.Grid.CellAt(transfer.Index)
		if !ok || origin.Class != transfer.Class {
			return false
		}
		e.Grid.Cells[targetIndex].setContent(transfer.Content)
		e.Grid.Cells[transfer.Index].clearContent()
		return true
	case TransferFromSwapBox:
		entries := e.Box[transfer.Class]
		if transfer.Index < 0 || transfer.Index >= len(entries) {
			return false
		}
		e.Grid.Cells[targetIndex].setContent(transfer.Content)
		e.Box[transfer.Class] = append(entries[:transfer.Index], entries[transfer.Index+1:]...)
		if len(e.Box[transfer.Class]) == 0 {
			delete(e.Box, transfer.Class)
		}
		return true
	default:
		return false
	}
}

// DiscardFromSwapBox drops a staged entry without placing it back.
func (e *Editor) DiscardFromSwapBox(class string, index int) bool {
	entries := e.Box[class]
	if index < 0 || index >= len(entries) {
		return false
	}
	e.Box[class] = append(entries[:index], entries[index+1:]...)
	if len(e.Box[class]) == 0 {
		delete(e.Box, class)
	}
	return true
}

// SetCell overwrites the assignment of a single cell, the single-cell edit
// dialog path. Out-of-range indices are ignored.
func (e *Editor) SetCell(index int, content CellContent) bool {
	if index < 0 || index >= len(e.Grid.Cells) {
		return false
	}
	e.Grid.Cells[index].setContent(content)
	return true
}

// Reset clears the staging areas, used on save and cancel.
func (e *Editor) Reset() {
	e.Box = make(SwapBox)
	e.Selection = Selection{}
}
