// Package resource holds the tri-state result every repository stream emits.
//
// A logical operation produces at most one Loading followed by exactly one
// terminal Success or Error. Listener streams produce one Success per snapshot
// until their context ends or the first load fails.
package resource

import (
	"context"
)

type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type Resource[T any] struct {
	Status  Status
	Data    T
	Message string
}

func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

func Error[T any](message string) Resource[T] {
	return Resource[T]{Status: StatusError, Message: message}
}

func (r Resource[T]) IsLoading() bool { return r.Status == StatusLoading }
func (r Resource[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Resource[T]) IsError() bool   { return r.Status == StatusError }

// Terminal reports whether r ends a one-shot operation.
func (r Resource[T]) Terminal() bool {
	return r.Status != StatusLoading
}

type Stream[T any] <-chan Resource[T]

// Once runs fn in its own goroutine and reports it as Loading then Success or Error.
// If ctx ends while fn runs, the stream is closed without a terminal emission.
func Once[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) Stream[T] {
	// room for both emissions so the producer never waits on an abandoned consumer
	ch := make(chan Resource[T], 2)
	ch <- Loading[T]()

	go func() {
		defer close(ch)

		data, err := fn(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			ch <- Error[T](err.Error())
			return
		}
		ch <- Success(data)
	}()

	return ch
}

// Fail returns a closed stream holding a single Error.
func Fail[T any](message string) Stream[T] {
	ch := make(chan Resource[T], 1)
	ch <- Error[T](message)
	close(ch)
	return ch
}

// Just returns a closed stream holding a single Success.
func Just[T any](data T) Stream[T] {
	ch := make(chan Resource[T], 1)
	ch <- Success(data)
	close(ch)
	return ch
}

// Watch emits Loading, then a fresh snapshot from load on start and on every
// value received from changes. A failing load emits Error and ends the stream.
// The stream ends when ctx ends or changes is closed.
func Watch[T, E any](ctx context.Context, changes <-chan E, load func(ctx context.Context) (T, error)) Stream[T] {
	ch := make(chan Resource[T], 1)
	ch <- Loading[T]()

	go func() {
		defer close(ch)

		emit := func() bool {
			data, err := load(ctx)
			if ctx.Err() != nil {
				return false
			}

			r := Success(data)
			if err != nil {
				r = Error[T](err.Error())
			}

			select {
			case ch <- r:
			case <-ctx.Done():
				return false
			}
			return err == nil
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return ch
}

// Last drains stream and returns its final emission.
// ok is false when the stream closed without emitting anything.
func Last[T any](stream Stream[T]) (last Resource[T], ok bool) {
	for r := range stream {
		last = r
		ok = true
	}
	return last, ok
}

// Await drains a one-shot stream and returns its data, or an error holding the
// Error message. A stream closed before its terminal state reports ctx's error.
func Await[T any](ctx context.Context, stream Stream[T]) (T, error) {
	var zero T
	last, ok := Last(stream)
	switch {
	case !ok || last.IsLoading():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, ErrNoResult
	case last.IsError():
		return zero, MessageError(last.Message)
	default:
		return last.Data, nil
	}
}
