// Package merge implements the sort-merge side of group-by.
//
// Input is a pull-based sequence of key/value pairs already ordered by key. Merge wraps it and
// produces one pair per maximal run of equal keys, folding the run values through a reducer:
//
//	it := merge.Merge(merge.FromSlice(pairs), merge.Ordered[int](), func(values []string) (string, error) {
//	    return strings.Join(values, ""), nil
//	})
//	for it.HasNext() {
//	    p, err := it.Next()
//	    if err != nil {
//	        return err
//	    }
//	    // use p.Key, p.Value
//	}
//
// Ordering is not checked. A key that reappears after a different key starts a new group.
//
// Iterators are not safe for concurrent use.
package merge
