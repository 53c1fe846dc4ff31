package actorutil

import (
	"errors"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func collect[T any](task *SafeBackgroundTask[T]) []T {
	var got []T
	task.onSuccess = func(v T) {
		got = append(got, v)
	}
	task.Run()
	return got
}

func TestBackgroundTaskSuccess(t *testing.T) {
	got := collect(NewBackgroundTask(nil, func() (*int, error) {
		return intPtr(5), nil
	}))
	assert.Equal(t, []int{5}, got)
}

func TestBackgroundTaskRecover(t *testing.T) {
	task := NewBackgroundTask(nil, func() (*int, error) {
		return nil, errors.New("read failed")
	}).Recover(func(err error) int {
		return -1
	})
	assert.Equal(t, []int{-1}, collect(task))
}

func TestBackgroundTaskErrorWithoutRecover(t *testing.T) {
	task := NewBackgroundTask(nil, func() (*int, error) {
		return nil, errors.New("read failed")
	})
	assert.Empty(t, collect(task))
}

func TestBackgroundTaskTimeout(t *testing.T) {
	var recovered error
	task := NewBackgroundTask(nil, func() (*int, error) {
		time.Sleep(300 * time.Millisecond)
		return intPtr(1), nil
	}).WithTimeout(20 * time.Millisecond).Recover(func(err error) int {
		recovered = err
		return -1
	})
	assert.Equal(t, []int{-1}, collect(task))
	assert.Error(t, recovered)
}

func TestMapBackgroundTask(t *testing.T) {
	base := NewBackgroundTask(nil, func() (*int, error) {
		return intPtr(21), nil
	})
	mapped := MapBackgroundTask(base, func(v *int) *string {
		s := "value"
		if *v*2 == 42 {
			s = "answer"
		}
		return &s
	})
	assert.Equal(t, []string{"answer"}, collect(mapped))
}

func TestBackgroundTaskPipeTo(t *testing.T) {
	as := actor.NewActorSystem()
	defer as.Shutdown()

	received := make(chan int, 1)
	pid := as.Root.Spawn(actor.PropsFromFunc(func(ctx actor.Context) {
		switch msg := ctx.Message().(type) {
		case string:
			NewBackgroundTask(ctx, func() (*int, error) {
				return intPtr(len(msg)), nil
			}).WithTimeout(time.Second).PipeTo(ctx.Self())
		case int:
			received <- msg
		}
	}))
	as.Root.Send(pid, "modbus")

	select {
	case v := <-received:
		require.Equal(t, 6, v)
	case <-time.After(2 * time.Second):
		t.Fatal("no result piped")
	}
}
