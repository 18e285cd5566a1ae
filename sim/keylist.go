package sim

// keyNode is a link in a KeyList's intrusive doubly linked list.
type keyNode struct {
	key  Key
	prev *keyNode // towards the front (most recent)
	next *keyNode // towards the back (eviction end)
}

// KeyList is an ordered set of keys combining an intrusive doubly linked
// list with a key index, giving O(1) membership, move-to-front, and
// eviction of the back element. The front holds the most recently touched
// key; the back holds the eviction candidate. It is the shared primitive
// behind LRU recency order, LFU frequency buckets, and both LRU-K tiers.
type KeyList struct {
	index map[Key]*keyNode
	front *keyNode // most recent
	back  *keyNode // eviction end
}

// NewKeyList returns an empty KeyList.
func NewKeyList() *KeyList {
	return &KeyList{index: make(map[Key]*keyNode)}
}

// Len returns the number of keys in the list.
func (l *KeyList) Len() int {
	return len(l.index)
}

// Contains reports whether key is in the list.
func (l *KeyList) Contains(key Key) bool {
	_, ok := l.index[key]
	return ok
}

// PushFront inserts key at the front. The key must not already be present;
// callers refresh existing keys with MoveToFront instead.
func (l *KeyList) PushFront(key Key) {
	node := &keyNode{key: key}
	l.index[key] = node
	// in a doubly linked list, either both front and back are nil, or neither
	if l.front != nil {
		node.next = l.front
		l.front.prev = node
		l.front = node
	} else {
		l.front = node
		l.back = node
	}
}

// MoveToFront refreshes key to the most recent position.
// It returns false if the key is not present.
func (l *KeyList) MoveToFront(key Key) bool {
	node, ok := l.index[key]
	if !ok {
		return false
	}
	if node == l.front {
		return true
	}
	l.unlink(node)
	node.next = l.front
	l.front.prev = node
	l.front = node
	return true
}

// Remove deletes key from the list. It returns false if the key is absent.
func (l *KeyList) Remove(key Key) bool {
	node, ok := l.index[key]
	if !ok {
		return false
	}
	l.unlink(node)
	delete(l.index, key)
	return true
}

// PopBack removes and returns the key at the eviction end.
func (l *KeyList) PopBack() (Key, bool) {
	if l.back == nil {
		return "", false
	}
	node := l.back
	l.unlink(node)
	delete(l.index, node.key)
	return node.key, true
}

// Back returns the eviction candidate without removing it.
func (l *KeyList) Back() (Key, bool) {
	if l.back == nil {
		return "", false
	}
	return l.back.key, true
}

// Keys returns the keys in order, front (most recent) first. The slice is
// freshly allocated and never nil, so snapshots marshal as [] when empty.
func (l *KeyList) Keys() []Key {
	keys := make([]Key, 0, len(l.index))
	for node := l.front; node != nil; node = node.next {
		keys = append(keys, node.key)
	}
	return keys
}

// unlink detaches node from its neighbors without touching the index.
func (l *KeyList) unlink(node *keyNode) {
	if node.prev != nil {
		// a - node - b => a - b
		node.prev.next = node.next
	} else {
		// node - a - b => a - b
		l.front = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		// a - b - node => a - b
		l.back = node.prev
	}
	node.prev = nil
	node.next = nil
}
