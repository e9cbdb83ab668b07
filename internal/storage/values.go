package storage

// Value dereferences an optional value for use as a statement argument:
// nil becomes SQL NULL. Not every database/sql driver accepts pointers.
func Value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
