package analysis

// GroupValue pairs a group key with one aggregate value.
type GroupValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// RankOf returns the 1-based position of target when values are ordered
// from largest to smallest, plus the number of groups. Equal values keep
// their input order, so the earlier group ranks higher. If a key repeats,
// its first occurrence is used.
func RankOf(values []GroupValue, target string) (rank, total int, err error) {
	idx := -1
	for i, gv := range values {
		if gv.Key == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, 0, &UnknownGroupError{Group: target}
	}
	v := values[idx].Value
	rank = 1
	for i, gv := range values {
		if gv.Value > v || (gv.Value == v && i < idx) {
			rank++
		}
	}
	return rank, len(values), nil
}

// ValuesOf flattens one field of grouped means into GroupValues, following
// the order of keys and skipping absent groups.
func ValuesOf(means map[string]map[string]float64, keys []string, field string) []GroupValue {
	out := make([]GroupValue, 0, len(keys))
	for _, k := range keys {
		row, ok := means[k]
		if !ok {
			continue
		}
		v, ok := row[field]
		if !ok {
			continue
		}
		out = append(out, GroupValue{Key: k, Value: v})
	}
	return out
}
