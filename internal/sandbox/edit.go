package sandbox

import "sort"

// Edit is {start byte, end byte, replacement text}.
type Edit struct {
	Start, End uint32
	Text       string
}

// CommitEdits sorts edits ascending by start byte, maintains a write cursor
// starting at 0, and for each edit in order skips it if its start lies
// before the cursor (overlap with a previously accepted edit); otherwise it
// appends original[cursor:edit.Start], then edit.Text, and advances the
// cursor to edit.End. Finally it appends original[cursor:].
func CommitEdits(original []byte, edits []Edit) string {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []byte
	cursor := uint32(0)
	for _, e := range sorted {
		if e.Start < cursor {
			continue // overlaps a previously accepted edit: drop silently
		}
		out = append(out, original[cursor:e.Start]...)
		out = append(out, e.Text...)
		cursor = e.End
	}
	if int(cursor) <= len(original) {
		out = append(out, original[cursor:]...)
	}
	return string(out)
}
