package publish

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deusflow/cryptonews/internal/news"
)

type stubPublisher struct {
	name  string
	err   error
	calls atomic.Int32
}

func (s *stubPublisher) Name() string { return s.name }

func (s *stubPublisher) Publish(ctx context.Context, item Item) error {
	s.calls.Add(1)
	return s.err
}

func TestFanoutDeliversToAll(t *testing.T) {
	ok := &stubPublisher{name: "ok"}
	bad := &stubPublisher{name: "bad", err: errors.New("down")}
	f := NewFanout(ok, nil, bad)

	assert.Equal(t, 2, f.Len())

	res := f.Publish(context.Background(), Item{Record: news.Record{Title: "x"}})
	assert.True(t, res.OK())
	assert.NoError(t, res["ok"])
	assert.ErrorContains(t, res.Err(), "bad: down")
	assert.EqualValues(t, 1, ok.calls.Load())
	assert.EqualValues(t, 1, bad.calls.Load())
}

func TestResultAllFailed(t *testing.T) {
	res := Result{"a": errors.New("x")}
	assert.False(t, res.OK())

	empty := NewFanout().Publish(context.Background(), Item{})
	assert.False(t, empty.OK())
	assert.NoError(t, empty.Err())
}

type mirrorPublisher struct{ stubPublisher }

func (m *mirrorPublisher) Mirror() bool { return true }

func TestMirrorDoesNotCountAsDelivery(t *testing.T) {
	echo := &mirrorPublisher{stubPublisher{name: "live"}}
	down := &stubPublisher{name: "telegram", err: errors.New("down")}

	res := NewFanout(echo, down).Publish(context.Background(), Item{Record: news.Record{Title: "x"}})
	assert.False(t, res.OK())
	assert.NotContains(t, res, "live")
	assert.EqualValues(t, 1, echo.calls.Load())

	res = NewFanout(echo).Publish(context.Background(), Item{})
	assert.Empty(t, res, "mirrors alone deliver nothing")
}
