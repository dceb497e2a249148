package editor

import "github.com/snowoball/statusrota/internal/sequence"

// Drag tracks a single in-progress row drag. The zero value is idle.
type Drag struct {
	source  sequence.RowID
	hovered sequence.RowID
	active  bool
}

// Start picks up the row with the given id. Starting while a drag is already
// in progress replaces its source.
func (d *Drag) Start(id sequence.RowID) {
	*d = Drag{source: id, active: true}
}

// Over marks id as the row currently under the pointer.
func (d *Drag) Over(id sequence.RowID) {
	if d.active {
		d.hovered = id
	}
}

// Leave clears the hover mark if it is on id.
func (d *Drag) Leave(id sequence.RowID) {
	if d.hovered == id {
		d.hovered = ""
	}
}

// Drop ends the drag on target. It returns the captured source and true when
// the drop should reorder, which requires an active drag onto a different row.
// The engine is idle afterwards either way.
func (d *Drag) Drop(target sequence.RowID) (sequence.RowID, bool) {
	source, active := d.source, d.active
	d.End()
	if !active || target == "" || source == target {
		return "", false
	}
	return source, true
}

// End aborts the drag without a reorder.
func (d *Drag) End() {
	*d = Drag{}
}

func (d Drag) Active() bool { return d.active }

func (d Drag) Source() sequence.RowID { return d.source }

// Hovered returns the row carrying the hover mark, if any.
func (d Drag) Hovered() sequence.RowID { return d.hovered }
