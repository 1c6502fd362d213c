package rtkernel

// Node is one link in an intrusive, doubly-linked circular List. Rather than
// the offset-subtraction trick a C kernel uses to recover the owning record
// from a bare node pointer (spec.md §4.1, §9), the Go translation embeds an
// explicit owner back-reference: Node is generic over the owner type, set
// once when the owner is constructed and never reassigned. The allocation
// behavior is identical either way — the node lives inside the owner, the
// list only ever holds pointers into records the caller already allocated.
type Node[T any] struct {
	prev, next *Node[T]
	owner      *T
}

// Owner returns the record this node is embedded in.
func (n *Node[T]) Owner() *T { return n.owner }

// linked reports whether the node is currently spliced into some List. A
// freshly constructed Node (zero value) has nil links, which doubles as
// "not linked" with no extra field.
func (n *Node[T]) linked() bool { return n.next != nil }

// List is a doubly-linked circular list with a sentinel head, matching
// spec.md §4.1. It never allocates: Init, InsertFirst, InsertLast, Remove
// and RemoveFirst only splice pointers the caller already owns.
type List[T any] struct {
	head Node[T]
	len  int
}

// Init prepares an empty list. A zero-value List is not ready to use; call
// Init first (mirroring the port-agnostic *_init convention used
// throughout the kernel's bootstrap).
func (l *List[T]) Init() {
	l.head.prev = &l.head
	l.head.next = &l.head
	l.len = 0
}

// Len returns the number of linked nodes.
func (l *List[T]) Len() int { return l.len }

// InsertFirst links n at the head of the list (the next node to be
// returned by First). Used by sched_ready so a just-woken task is the next
// one to run at its priority.
func (l *List[T]) InsertFirst(n *Node[T]) {
	n.prev = &l.head
	n.next = l.head.next
	l.head.next.prev = n
	l.head.next = n
	l.len++
}

// InsertLast links n at the tail of the list.
func (l *List[T]) InsertLast(n *Node[T]) {
	n.next = &l.head
	n.prev = l.head.prev
	l.head.prev.next = n
	l.head.prev = n
	l.len++
}

// Remove unlinks n. It is a no-op if n is not currently linked, so callers
// need not guard every Remove with a membership check.
func (l *List[T]) Remove(n *Node[T]) {
	if !n.linked() {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	l.len--
}

// RemoveFirst unlinks and returns the head node, or nil if the list is
// empty.
func (l *List[T]) RemoveFirst() *Node[T] {
	if l.len == 0 {
		return nil
	}
	n := l.head.next
	l.Remove(n)
	return n
}

// First returns the head node without unlinking it, or nil if the list is
// empty.
func (l *List[T]) First() *Node[T] {
	if l.len == 0 {
		return nil
	}
	return l.head.next
}

// MoveToBack unlinks n and re-inserts it at the tail; used by the tick
// handler's round-robin rotation (spec.md §4.6 step 2).
func (l *List[T]) MoveToBack(n *Node[T]) {
	l.Remove(n)
	l.InsertLast(n)
}

// Each calls fn for every node currently in the list, front to back. fn may
// unlink the node it is passed (the traversal captures the next pointer
// before calling fn), matching spec.md §4.6's requirement that the
// delayed-list walk "tolerate current-node removal".
func (l *List[T]) Each(fn func(n *Node[T])) {
	n := l.head.next
	for n != &l.head {
		next := n.next
		fn(n)
		n = next
	}
}
