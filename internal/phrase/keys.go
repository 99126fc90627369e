package phrase

import "slices"

// sortedKeys is the ascending, duplicate-free key list of a keyed child
// collection. It is updated on insert/remove so lookups never re-sort.
type sortedKeys []string

func (k *sortedKeys) insert(key string) bool {
	i, found := slices.BinarySearch(*k, key)
	if found {
		return false
	}
	*k = slices.Insert(*k, i, key)
	return true
}

func (k *sortedKeys) remove(key string) bool {
	i, found := slices.BinarySearch(*k, key)
	if !found {
		return false
	}
	*k = slices.Delete(*k, i, i+1)
	return true
}

// index returns the position of key in sorted order.
func (k sortedKeys) index(key string) (int, bool) {
	return slices.BinarySearch(k, key)
}

// firstByKey returns the item with the smallest key.
func firstByKey[V any](keys sortedKeys, items map[string]V) (V, bool) {
	return nthByKey(keys, items, 0)
}

// nextByKey returns the item following current in key order. found is false
// when current is not a key; ok is false when current is the last key.
func nextByKey[V any](keys sortedKeys, items map[string]V, current string) (next V, ok, found bool) {
	i, found := keys.index(current)
	if !found {
		return next, false, false
	}
	next, ok = nthByKey(keys, items, i+1)
	return next, ok, true
}

// nthByKey returns the item at position index in key order.
func nthByKey[V any](keys sortedKeys, items map[string]V, index int) (V, bool) {
	if index < 0 || index >= len(keys) {
		var zero V
		return zero, false
	}
	return items[keys[index]], true
}
