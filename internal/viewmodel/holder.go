// Package viewmodel holds one state holder per screen. A holder owns an
// immutable snapshot, replaces it whole on every update and hands navigation
// events out exactly once. Everything a holder starts runs in its scope and
// ends with Close.
package viewmodel

import (
	"chatapp-client/internal/resource"
	"context"
	"sync"

	"go.uber.org/zap"
)

// navigationBuffer bounds navigation events nobody consumed yet.
const navigationBuffer = 8

// Progress is the loading and error part every snapshot embeds.
// It is only built by progressOf, so it is never loading and failed at once.
type Progress struct {
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

func progressOf[T any](r resource.Resource[T]) Progress {
	switch {
	case r.IsLoading():
		return Progress{IsLoading: true}
	case r.IsError():
		return Progress{Error: r.Message}
	default:
		return Progress{}
	}
}

// Destination is a screen the UI should move to.
type Destination struct {
	Route          string `json:"route"`
	ServerID       int64  `json:"serverID,string,omitempty"`
	ChannelID      int64  `json:"channelID,string,omitempty"`
	ConversationID int64  `json:"conversationID,string,omitempty"`
	UserID         int64  `json:"userID,string,omitempty"`
}

const (
	RouteLogin          = "login"
	RouteHome           = "home"
	RouteChat           = "chat"
	RouteDirectMessages = "direct_messages"
	RouteProfile        = "profile"
	RouteVoice          = "voice"
	RouteMembers        = "members"
)

type Holder[S any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	sugar  *zap.SugaredLogger

	mutex     sync.Mutex
	state     S
	observers map[chan S]struct{}

	navigation chan Destination
}

func newHolder[S any](parent context.Context, sugar *zap.SugaredLogger, initial S) *Holder[S] {
	ctx, cancel := context.WithCancel(parent)
	return &Holder[S]{
		ctx:        ctx,
		cancel:     cancel,
		sugar:      sugar,
		state:      initial,
		observers:  make(map[chan S]struct{}),
		navigation: make(chan Destination, navigationBuffer),
	}
}

// State returns the current snapshot.
func (h *Holder[S]) State() S {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.state
}

// Observe delivers the current snapshot and then every newer one.
// A slow reader only ever sees the latest snapshot. The channel is closed when
// ctx ends or the holder is closed.
func (h *Holder[S]) Observe(ctx context.Context) <-chan S {
	ch := make(chan S, 1)

	h.mutex.Lock()
	ch <- h.state
	h.observers[ch] = struct{}{}
	h.mutex.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-h.ctx.Done():
		}

		h.mutex.Lock()
		delete(h.observers, ch)
		close(ch)
		h.mutex.Unlock()
	}()

	return ch
}

// Navigation hands out each navigation event to a single reader, once.
func (h *Holder[S]) Navigation() <-chan Destination {
	return h.navigation
}

// Close cancels every subscription and intent of the holder.
func (h *Holder[S]) Close() {
	h.cancel()
}

// Done is closed once the holder is closed.
func (h *Holder[S]) Done() <-chan struct{} {
	return h.ctx.Done()
}

func (h *Holder[S]) update(fn func(S) S) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.state = fn(h.state)

	for ch := range h.observers {
		// drop the unread snapshot, the new one replaces it
		select {
		case <-ch:
		default:
		}
		ch <- h.state
	}
}

func (h *Holder[S]) navigate(destination Destination) {
	select {
	case h.navigation <- destination:
	default:
		h.sugar.Debugf("Dropping navigation to %s, nobody is reading", destination.Route)
	}
}

// follow folds every emission of stream into the snapshot with apply.
// The returned channel is closed once the stream ended and its last emission was applied.
func follow[S, T any](h *Holder[S], stream resource.Stream[T], apply func(S, resource.Resource[T]) S) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		for r := range stream {
			if r.IsError() {
				h.sugar.Debugf("Screen operation failed: %s", r.Message)
			}
			h.update(func(s S) S {
				return apply(s, r)
			})
		}
	}()

	return done
}

// child returns a scope inside the holder's scope, for subscriptions an intent replaces.
func (h *Holder[S]) child() (context.Context, context.CancelFunc) {
	return context.WithCancel(h.ctx)
}
