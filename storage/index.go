package storage

import "sort"

// stringIndex is an equality index over one TEXT column: value → set of
// row ids. It is fully owned by its Table; all maintenance goes through
// add/remove so that empty buckets never linger.
type stringIndex struct {
	column  int
	buckets map[string]map[int64]struct{}
}

func newStringIndex(column int) *stringIndex {
	return &stringIndex{
		column:  column,
		buckets: make(map[string]map[int64]struct{}),
	}
}

func (ix *stringIndex) add(id int64, row Row) {
	value := row[ix.column].(string)
	bucket, ok := ix.buckets[value]
	if !ok {
		bucket = make(map[int64]struct{})
		ix.buckets[value] = bucket
	}
	bucket[id] = struct{}{}
}

// remove drops the id from its value bucket and prunes the bucket when it
// empties.
func (ix *stringIndex) remove(id int64, row Row) {
	value := row[ix.column].(string)
	bucket, ok := ix.buckets[value]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(ix.buckets, value)
	}
}

// lookup returns the ids under value in ascending order, or nil.
func (ix *stringIndex) lookup(value string) []int64 {
	bucket, ok := ix.buckets[value]
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
