package core

import "sort"

// EntityCount is the number of records carrying one value of a column.
type EntityCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountByEntity counts the non-empty values of field, most frequent first
// and ties in ascending value order.
func CountByEntity(ds *Dataset, field string) ([]EntityCount, error) {
	i, err := ds.fieldIndex(field)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range ds.records {
		if v := r.value(i); v != "" {
			counts[v]++
		}
	}
	out := make([]EntityCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, EntityCount{Value: v, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	return out, nil
}

// BestEntity returns the most frequent value of field. Ties go to the
// smallest value.
func BestEntity(ds *Dataset, field string) (EntityCount, error) {
	if _, err := ds.fieldIndex(field); err != nil {
		return EntityCount{}, err
	}
	if ds.IsEmpty() {
		return EntityCount{}, &EmptyDatasetError{Op: "best " + field}
	}
	counts, err := CountByEntity(ds, field)
	if err != nil {
		return EntityCount{}, err
	}
	if len(counts) == 0 {
		return EntityCount{}, &EmptyDatasetError{Op: "best " + field}
	}
	return counts[0], nil
}
