// Package resource fournit le wrapper Loading/Success/Error utilisé par
// les flux d'observation et l'état observable du checkout.
package resource

type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

// Resource est une union étiquetée à trois variantes, à matcher
// exhaustivement côté consommateur via Status.
type Resource[T any] struct {
	Status Status
	Data   T
	Err    error
}

func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

func Failure[T any](err error) Resource[T] {
	return Resource[T]{Status: StatusError, Err: err}
}

func (r Resource[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Resource[T]) IsError() bool   { return r.Status == StatusError }
