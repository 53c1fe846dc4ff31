package actorutil

import (
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdMsg struct{}

type releaseOneMsg struct{}

type releaseAllMsg struct{}

type seenRequest struct{}

// stashingActor answers strings with "<msg>-done" unless it is on hold.
type stashingActor struct {
	stash Stash
	hold  bool
	allow int
	seen  []string
}

func (a *stashingActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case holdMsg:
		a.hold = true
	case releaseOneMsg:
		a.allow++
		a.stash.UnstashOldest(ctx)
	case releaseAllMsg:
		a.hold = false
		a.stash.UnstashAll(ctx)
	case seenRequest:
		ctx.Respond(append([]string(nil), a.seen...))
	case string:
		if a.hold {
			if a.allow == 0 {
				a.stash.Stash(ctx, msg)
				return
			}
			a.allow--
		}
		a.seen = append(a.seen, msg)
		ctx.Respond(msg + "-done")
	}
}

func TestStashKeepsOrderAndSender(t *testing.T) {
	as := actor.NewActorSystem()
	defer as.Shutdown()
	root := as.Root

	pid := root.Spawn(actor.PropsFromProducer(func() actor.Actor { return &stashingActor{} }))

	root.Send(pid, holdMsg{})
	futA := root.RequestFuture(pid, "a", 2*time.Second)
	futB := root.RequestFuture(pid, "b", 2*time.Second)

	root.Send(pid, releaseOneMsg{})
	res, err := futA.Result()
	require.NoError(t, err)
	assert.Equal(t, "a-done", res)

	res, err = root.RequestFuture(pid, seenRequest{}, time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res)

	root.Send(pid, releaseAllMsg{})
	res, err = futB.Result()
	require.NoError(t, err)
	assert.Equal(t, "b-done", res)

	res, err = root.RequestFuture(pid, seenRequest{}, time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res)
}
