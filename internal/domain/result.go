package domain

// Status classifies the outcome of a content store read.
type Status string

const (
	// StatusOK means the read returned data.
	StatusOK Status = "ok"
	// StatusEmpty means a collection read produced no records, either because
	// the collection is empty or because the read failed.
	StatusEmpty Status = "empty"
	// StatusAbsent means a single-record read found nothing or failed.
	StatusAbsent Status = "absent"
)

// Result is what the content client hands back instead of an error. Err keeps
// the absorbed failure for logging and metrics; callers render from Value.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Found reports whether the read produced data.
func (r Result[T]) Found() bool {
	return r.Status == StatusOK
}

// Failed reports whether a transport or decoding failure was absorbed.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Records builds a collection result. A nil slice is normalised to empty so
// JSON encodes it as [].
func Records(records []Record, err error) Result[[]Record] {
	if records == nil {
		records = []Record{}
	}
	if err != nil || len(records) == 0 {
		return Result[[]Record]{Value: []Record{}, Status: StatusEmpty, Err: err}
	}
	return Result[[]Record]{Value: records, Status: StatusOK}
}

// Single builds a single-record result.
func Single(record *Record, err error) Result[*Record] {
	if err != nil || record == nil {
		return Result[*Record]{Status: StatusAbsent, Err: err}
	}
	return Result[*Record]{Value: record, Status: StatusOK}
}
