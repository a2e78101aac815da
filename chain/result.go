package chain

// Result carries the outcome of a read-only ledger query. A failed query
// still carries the zero value so callers can render something, but Failed
// lets them tell "zero" apart from "could not ask".
type Result[T any] struct {
	Value  T
	Failed bool
	Err    error
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failed[T any](err error) Result[T] {
	var zero T
	return Result[T]{Value: zero, Failed: true, Err: err}
}
