package book

// Order is the reading order of a book: a permutation of page IDs with no
// duplicates. Positions are 1-based.
type Order struct {
	ids []string
}

// Len returns the number of pages in the order.
func (o *Order) Len() int {
	return len(o.ids)
}

// IDs returns a copy of the page IDs in reading order.
func (o *Order) IDs() []string {
	out := make([]string, len(o.ids))
	copy(out, o.ids)
	return out
}

// Position returns the 1-based position of id, or 0 when id is not in the order.
func (o *Order) Position(id string) int {
	for i, v := range o.ids {
		if v == id {
			return i + 1
		}
	}
	return 0
}

// Append adds id at the end. Appending an id already present is a no-op.
func (o *Order) Append(id string) {
	if o.Position(id) > 0 {
		return
	}
	o.ids = append(o.ids, id)
}

// Remove deletes id and compacts the remaining positions.
func (o *Order) Remove(id string) error {
	pos := o.Position(id)
	if pos == 0 {
		return ErrPageNotFound
	}
	o.ids = append(o.ids[:pos-1], o.ids[pos:]...)
	return nil
}

// MoveTo moves id to target. The target is clamped to [1, Len()] rather than
// rejected, and the pages in between shift by one.
func (o *Order) MoveTo(id string, target int) error {
	pos := o.Position(id)
	if pos == 0 {
		return ErrPageNotFound
	}

	target = max(1, min(target, len(o.ids)))
	if target == pos {
		return nil
	}

	o.ids = append(o.ids[:pos-1], o.ids[pos:]...)
	idx := target - 1
	o.ids = append(o.ids, "")
	copy(o.ids[idx+1:], o.ids[idx:])
	o.ids[idx] = id
	return nil
}
