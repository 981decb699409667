package dataset

// RecordSet is an ordered, read-only sequence of Records. Filtering produces
// a new RecordSet; the source is never modified.
type RecordSet struct {
	recs []Record
}

// NewRecordSet copies recs into a new RecordSet.
func NewRecordSet(recs []Record) RecordSet {
	cp := make([]Record, len(recs))
	copy(cp, recs)
	return RecordSet{recs: cp}
}

// Len returns the number of records.
func (s RecordSet) Len() int { return len(s.recs) }

// Empty reports whether the set holds no records.
func (s RecordSet) Empty() bool { return len(s.recs) == 0 }

// At returns the i-th record.
func (s RecordSet) At(i int) Record { return s.recs[i] }

// Each calls fn for every record in order.
func (s RecordSet) Each(fn func(Record)) {
	for _, r := range s.recs {
		fn(r)
	}
}

// Values returns the numeric field of every record, in order.
func (s RecordSet) Values(field string) []float64 {
	out := make([]float64, len(s.recs))
	for i, r := range s.recs {
		out[i] = r.Num(field)
	}
	return out
}

// Where returns a new RecordSet holding the records for which keep is true.
func (s RecordSet) Where(keep func(Record) bool) RecordSet {
	out := make([]Record, 0, len(s.recs))
	for _, r := range s.recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return RecordSet{recs: out}
}
