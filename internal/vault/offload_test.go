package vault

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsTasks(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		err := p.Do(context.Background(), func() error {
			ran.Add(1)
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(10), ran.Load())
}

func TestWorkerPool_PropagatesError(t *testing.T) {
	p := NewWorkerPool(1)
	defer p.Close()

	want := errors.New(errors.CodeInvalidInput, "bad")
	err := p.Do(context.Background(), func() error { return want })
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestWorkerPool_RecoversPanic(t *testing.T) {
	p := NewWorkerPool(1)
	defer p.Close()

	err := p.Do(context.Background(), func() error {
		panic("boom")
	})
	require.Error(t, err)
	assert.True(t, IsInternal(err))

	// The worker survives the panic.
	assert.NoError(t, p.Do(context.Background(), func() error { return nil }))
}

func TestWorkerPool_ContextWhileWaiting(t *testing.T) {
	p := NewWorkerPool(1)
	defer p.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func() error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))

	close(release)
}

func TestWorkerPool_Closed(t *testing.T) {
	p := NewWorkerPool(1)
	p.Close()
	p.Close()

	err := p.Do(context.Background(), func() error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
}
