package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/lrucache/lru"
)

func TestParseOps(t *testing.T) {
	ops, err := parseOps([]string{"put:1:10", "get:1", "put:-2:-1"})
	require.NoError(t, err)
	assert.Equal(t, []op{
		{put: true, key: 1, val: 10},
		{key: 1},
		{put: true, key: -2, val: -1},
	}, ops)
}

func TestParseOps_Rejects(t *testing.T) {
	for _, bad := range []string{"", "get", "get:x", "put:1", "put:1:y", "del:1", "get:1:2"} {
		_, err := parseOps([]string{bad})
		assert.ErrorIs(t, err, errBadOp, "input %q", bad)
	}
}

func TestRunTrace_Scenario(t *testing.T) {
	ops, err := parseOps(strings.Fields("put:1:1 put:2:2 get:1 put:3:3 get:2 put:4:4 get:1 get:3 get:4"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runTrace(&out, 2, ops))

	want := `put 1 1 -> [1:1]
put 2 2 -> [2:2 1:1]
get 1 = 1 -> [1:1 2:2]
  evict 2:2
put 3 3 -> [3:3 1:1]
get 2 = miss -> [3:3 1:1]
  evict 1:1
put 4 4 -> [4:4 3:3]
get 1 = miss -> [4:4 3:3]
get 3 = 3 -> [3:3 4:4]
get 4 = 4 -> [4:4 3:3]
`
	assert.Equal(t, want, out.String())
}

func TestRunTrace_InvalidCapacity(t *testing.T) {
	err := runTrace(&bytes.Buffer{}, 0, nil)
	assert.ErrorIs(t, err, lru.ErrInvalidCapacity)
}

func TestRandomOps(t *testing.T) {
	ops := randomOps(5, 3, 42)
	require.Len(t, ops, 10)
	for i := 0; i < len(ops); i += 2 {
		assert.Equal(t, op{put: true, key: i / 2, val: i / 2}, ops[i])
		assert.False(t, ops[i+1].put)
		assert.Less(t, ops[i+1].key, 3)
	}
	assert.Equal(t, ops, randomOps(5, 3, 42), "same seed must give same ops")
	assert.Nil(t, randomOps(0, 3, 1))
}

func TestApp_TraceCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp(slog.New(slog.DiscardHandler))
	app.Writer = &out

	require.NoError(t, app.Run(context.Background(), []string{"lrubench", "trace", "--cap", "1", "put:1:1", "put:2:2", "get:1"}))
	assert.Contains(t, out.String(), "evict 1:1")
	assert.Contains(t, out.String(), "get 1 = miss -> [2:2]")
}

func TestRunBench_Short(t *testing.T) {
	sum, err := runBench(context.Background(), slog.New(slog.DiscardHandler), benchConfig{
		capacity: 128,
		workers:  2,
		duration: 50 * time.Millisecond,
		readPct:  50,
		keys:     1024,
		zipfS:    1.1,
		zipfV:    1,
		seed:     1,
	})
	require.NoError(t, err)
	assert.Positive(t, sum.reads+sum.writes)
	assert.LessOrEqual(t, sum.stats.Entries, 128)
}

func TestRunBench_RejectsBadConfig(t *testing.T) {
	_, err := runBench(context.Background(), slog.New(slog.DiscardHandler), benchConfig{
		capacity: 8, keys: 10, readPct: 150, zipfS: 1.1, zipfV: 1, duration: time.Second,
	})
	assert.Error(t, err)
}
