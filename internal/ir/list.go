package ir

// List is a doubly-linked sequence of Instructions with O(1) append and
// splice, matching the head/tail shape of ssa's basic-block instruction
// lists (spec §3 "IR list").
type List struct {
	head, tail *Instruction
	length     int
}

// NewList constructs an empty List.
func NewList() *List { return &List{} }

func (l *List) Head() *Instruction { return l.head }
func (l *List) Tail() *Instruction { return l.tail }
func (l *List) Len() int           { return l.length }
func (l *List) Empty() bool        { return l.head == nil }

// Append adds ir at the end of the list in O(1).
func (l *List) Append(ir *Instruction) *Instruction {
	ir.list = l
	ir.next = nil
	if l.tail == nil {
		l.head, l.tail = ir, ir
		ir.prev = nil
	} else {
		ir.prev = l.tail
		l.tail.next = ir
		l.tail = ir
	}
	l.length++
	return ir
}

// Prepend adds ir at the front of the list in O(1).
func (l *List) Prepend(ir *Instruction) *Instruction {
	ir.list = l
	ir.prev = nil
	if l.head == nil {
		l.head, l.tail = ir, ir
		ir.next = nil
	} else {
		ir.next = l.head
		l.head.prev = ir
		l.head = ir
	}
	l.length++
	return ir
}

// InsertAfter inserts ir immediately after pred. pred must belong to l.
func (l *List) InsertAfter(pred, ir *Instruction) *Instruction {
	if pred == nil {
		return l.Prepend(ir)
	}
	if pred.list != l {
		panic("BUG: InsertAfter predecessor does not belong to this list")
	}
	ir.list = l
	ir.prev = pred
	ir.next = pred.next
	if pred.next != nil {
		pred.next.prev = ir
	} else {
		l.tail = ir
	}
	pred.next = ir
	l.length++
	return ir
}

// Splice inserts the sublist [subHead, subTail] (already internally
// linked) immediately after pred, taking ownership of its nodes. This is
// the primitive later passes (LMM transform, inline-asm expansion) use to
// replace one instruction with many without reallocating the rest of the
// list (spec §3 Lifecycle: "later passes may splice and relink but never
// deallocate").
func (l *List) Splice(pred, subHead, subTail *Instruction) {
	if pred != nil && pred.list != l {
		panic("BUG: Splice predecessor does not belong to this list")
	}
	n := 0
	for cur := subHead; cur != nil; cur = cur.next {
		cur.list = l
		n++
		if cur == subTail {
			break
		}
	}

	var after *Instruction
	if pred == nil {
		after = l.head
		l.head = subHead
	} else {
		after = pred.next
		pred.next = subHead
	}
	subHead.prev = pred

	if after == nil {
		l.tail = subTail
	} else {
		subTail.next = after
		after.prev = subTail
	}
	l.length += n
}

// Remove unlinks ir from the list without deallocating it. Prefer
// MarkDummy over Remove whenever another instruction's Aux/Fcache
// back-pointer might reference ir by address (spec §3 Lifecycle).
func (l *List) Remove(ir *Instruction) {
	if ir.list != l {
		panic("BUG: Remove target does not belong to this list")
	}
	if ir.prev != nil {
		ir.prev.next = ir.next
	} else {
		l.head = ir.next
	}
	if ir.next != nil {
		ir.next.prev = ir.prev
	} else {
		l.tail = ir.prev
	}
	ir.prev, ir.next, ir.list = nil, nil, nil
	l.length--
}

// Each calls f for every instruction from head to tail, in list order —
// the order in which instructions are emitted (spec §5 "Within a
// function, instructions are emitted in the order they are appended to
// the IR list").
func (l *List) Each(f func(*Instruction)) {
	for cur := l.head; cur != nil; cur = cur.next {
		f(cur)
	}
}

// AssignAddresses walks the list assigning a monotonically increasing
// Addr starting at base, one per non-Dummy instruction that reaches the
// emitter; Dummy entries inherit the address of the following
// address-bearing instruction so stale back-pointers through them still
// resolve. Label addresses must be assigned before any branch-target
// inspection (spec §5 "Ordering guarantees").
func (l *List) AssignAddresses(base int) {
	addr := base
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.Dummy() {
			continue
		}
		cur.Addr = addr
		addr++
	}
	// Second pass: give every Dummy node the address of its nearest
	// following address-bearing instruction, so a stale Aux/Fcache
	// pointer that still targets it resolves to where execution would
	// actually continue.
	trailing := addr
	for cur := l.tail; cur != nil; cur = cur.prev {
		if cur.Dummy() {
			cur.Addr = trailing
		} else {
			trailing = cur.Addr
		}
	}
}
