package queue

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Backend(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		want    any
	}{
		{"monitor", BackendMonitor, &Monitor[int]{}},
		{"semaphore", BackendSemaphore, &Semaphore[int]{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New[int](tt.backend, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.backend, q.Backend())
			assert.IsType(t, tt.want, q.impl)
			assert.Equal(t, 3, q.Capacity())
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	q, err := New[int](Backend(42), 3)
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, ErrUnknownBackend), "err = %v", err)
}

func TestNew_InvalidCapacityIsWrapped(t *testing.T) {
	_, err := New[int](BackendSemaphore, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCapacity))
	assert.Contains(t, err.Error(), "semaphore")
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"monitor", BackendMonitor, false},
		{"cond", BackendMonitor, false},
		{" Semaphore ", BackendSemaphore, false},
		{"sem", BackendSemaphore, false},
		{"spinlock", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownBackend), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackend_String(t *testing.T) {
	assert.Equal(t, "monitor", BackendMonitor.String())
	assert.Equal(t, "semaphore", BackendSemaphore.String())
	assert.Equal(t, "backend(9)", Backend(9).String())
}

func TestWithLogger_TracesOperations(t *testing.T) {
	for _, backend := range []Backend{BackendMonitor, BackendSemaphore} {
		t.Run(backend.String(), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			q, err := New[int](backend, 1, WithLogger(zap.New(core)))
			require.NoError(t, err)

			q.Put(1)
			q.Add(2)
			q.Get()
			q.Remove()

			entries := logs.All()
			require.Len(t, entries, 4)

			wantOps := []string{"put (B)", "add (I)", "get (B)", "remove (I)"}
			wantOk := []bool{true, false, true, false}
			for i, e := range entries {
				assert.Equal(t, wantOps[i], e.Message)
				fields := e.ContextMap()
				assert.Equal(t, backend.String(), fields["backend"])
				assert.Equal(t, wantOk[i], fields["ok"])
			}
		})
	}
}

func TestWithLogger_SilentAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	q, err := New[int](BackendMonitor, 1, WithLogger(zap.New(core)))
	require.NoError(t, err)

	q.Put(1)
	q.Get()
	assert.Zero(t, logs.Len())
}

func TestWithLogger_NilKeepsNop(t *testing.T) {
	q, err := NewMonitor[int](1, WithLogger(nil))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		q.Put(1)
		q.Get()
	})
}
