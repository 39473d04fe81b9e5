package viewmodel

import (
	"chatapp-client/internal/resource"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type counterState struct {
	Progress
	Count int
}

func TestObserveConflates(t *testing.T) {
	h := newHolder(context.Background(), zap.NewNop().Sugar(), counterState{})
	defer h.Close()

	states := h.Observe(context.Background())
	require.Equal(t, 0, (<-states).Count)

	for i := 0; i < 10; i++ {
		h.update(func(s counterState) counterState {
			s.Count++
			return s
		})
	}

	// only the latest snapshot is waiting
	require.Equal(t, 10, (<-states).Count)
	select {
	case s := <-states:
		t.Fatalf("unexpected stale snapshot %d", s.Count)
	default:
	}
}

func TestCloseEndsObservers(t *testing.T) {
	h := newHolder(context.Background(), zap.NewNop().Sugar(), counterState{})
	states := h.Observe(context.Background())
	<-states

	h.Close()

	select {
	case _, ok := <-states:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("observer wasn't closed")
	}

	select {
	case <-h.Done():
	default:
		t.Fatal("holder scope wasn't cancelled")
	}
}

func TestNavigationDeliveredOnce(t *testing.T) {
	h := newHolder(context.Background(), zap.NewNop().Sugar(), counterState{})
	defer h.Close()

	h.navigate(Destination{Route: RouteHome})

	require.Equal(t, RouteHome, (<-h.Navigation()).Route)

	// a second reader, as after a reconfiguration, gets nothing
	select {
	case d := <-h.Navigation():
		t.Fatalf("navigation to %s delivered twice", d.Route)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProgressOf(t *testing.T) {
	tests := []struct {
		name string
		in   resource.Resource[int]
		want Progress
	}{
		{"loading", resource.Loading[int](), Progress{IsLoading: true}},
		{"success", resource.Success(1), Progress{}},
		{"error", resource.Error[int]("not found"), Progress{Error: "not found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, progressOf(tt.in))
		})
	}
}

func TestFollowAppliesInOrder(t *testing.T) {
	h := newHolder(context.Background(), zap.NewNop().Sugar(), counterState{})
	defer h.Close()

	var seen []Progress
	stream := resource.Once(context.Background(), func(ctx context.Context) (int, error) {
		return 5, nil
	})
	<-follow(h, stream, func(s counterState, r resource.Resource[int]) counterState {
		s.Progress = progressOf(r)
		seen = append(seen, s.Progress)
		if r.IsSuccess() {
			s.Count = r.Data
		}
		return s
	})

	require.Equal(t, []Progress{{IsLoading: true}, {}}, seen)
	require.Equal(t, 5, h.State().Count)
}
