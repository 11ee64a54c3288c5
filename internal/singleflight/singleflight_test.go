package singleflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGroup_CoalescesConcurrentCalls(t *testing.T) {
	var g Group[string, int]
	var calls atomic.Int64
	release := make(chan struct{})

	const n = 16
	var started sync.WaitGroup
	started.Add(n)
	var eg errgroup.Group
	for range n {
		eg.Go(func() error {
			started.Done()
			v, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 7, nil
			})
			if err != nil {
				return err
			}
			if v != 7 {
				return errors.New("wrong value")
			}
			return nil
		})
	}
	started.Wait()
	time.Sleep(10 * time.Millisecond) // let followers join the flight
	close(release)

	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got < 1 || got > n {
		t.Fatalf("fn ran %d times", got)
	}
	if g.InFlight() != 0 {
		t.Fatalf("InFlight = %d after completion", g.InFlight())
	}
}

func TestGroup_PropagatesError(t *testing.T) {
	t.Parallel()

	var g Group[int, string]
	boom := errors.New("boom")
	_, shared, err := g.Do(context.Background(), 1, func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if shared {
		t.Fatal("single caller must not report shared")
	}
}

func TestGroup_FollowerContextCancel(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	release := make(chan struct{})
	leaderIn := make(chan struct{})
	leaderDone := make(chan struct{})

	go func() {
		defer close(leaderDone)
		_, _, _ = g.Do(context.Background(), "k", func(context.Context) (int, error) {
			close(leaderIn)
			<-release
			return 1, nil
		})
	}()
	<-leaderIn

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, shared, err := g.Do(ctx, "k", func(context.Context) (int, error) {
		t.Error("follower must not run fn")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) || !shared {
		t.Fatalf("follower: shared=%v err=%v, want shared cancel", shared, err)
	}

	close(release)
	<-leaderDone
}

func TestGroup_PanicReleasesFollowers(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	leaderIn := make(chan struct{})
	followerErr := make(chan error, 1)

	go func() {
		<-leaderIn
		_, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
			return 0, nil
		})
		followerErr <- err
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("leader must re-panic")
			}
		}()
		_, _, _ = g.Do(context.Background(), "k", func(context.Context) (int, error) {
			close(leaderIn)
			time.Sleep(10 * time.Millisecond) // let the follower join
			panic("bad loader")
		})
	}()

	// The follower either joined the panicking flight or ran its own after it.
	if err := <-followerErr; err != nil && !errors.Is(err, ErrPanicked) {
		t.Fatalf("follower err = %v", err)
	}
	if g.InFlight() != 0 {
		t.Fatalf("InFlight = %d after panic", g.InFlight())
	}
}
