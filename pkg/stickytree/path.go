package stickytree

// ParentPath returns the chain from the root down to index, inclusive, root
// first. These are the headers that stay pinned while the record's content
// scrolls beneath them. An out-of-range index yields nil.
func ParentPath[N any](records []Record[N], index int) []Record[N] {
	if index < 0 || index >= len(records) {
		return nil
	}

	path := make([]Record[N], 0, records[index].Depth+1)
	for i := index; i != NoParent; i = records[i].ParentIndex {
		path = append(path, records[i])
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// PathIndices is ParentPath reduced to record indices.
func PathIndices[N any](records []Record[N], index int) []int {
	path := ParentPath(records, index)
	out := make([]int, len(path))
	for i, rec := range path {
		out[i] = rec.Index
	}
	return out
}
