package heictopng

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertManyOrderAndIsolation(t *testing.T) {
	backend := &fakeBackend{
		name:    "scripted",
		data:    tinyPNG(t, 1, 1),
		failFor: map[string]bool{"f2.heic": true},
	}
	conv := newTestConverter(t, Options{Backends: []Backend{backend}})

	inputs := []InputImage{
		NewInputImage("f1.heic", ftypHeader("heic", 64)),
		NewInputImage("f2.heic", ftypHeader("heic", 64)),
		NewInputImage("f3.heic", ftypHeader("heic", 64)),
	}
	res := conv.ConvertMany(context.Background(), inputs)

	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)

	assert.True(t, res.Outcomes[0].OK())
	assert.Equal(t, "f1.png", res.Outcomes[0].OutputName)
	assert.False(t, res.Outcomes[1].OK(), "f2's failure must stay isolated to f2")
	assert.True(t, res.Outcomes[2].OK())
	assert.Equal(t, "f3.png", res.Outcomes[2].OutputName)

	assert.Equal(t, []string{"f2.heic: all_strategies_failed"}, res.FailedNames())
}

func TestConvertManyParallelPreservesOrder(t *testing.T) {
	backend := &fakeBackend{name: "b", data: tinyPNG(t, 1, 1)}
	conv := newTestConverter(t, Options{Parallelism: 4, Backends: []Backend{backend}})

	var inputs []InputImage
	for i := 0; i < 16; i++ {
		inputs = append(inputs, NewInputImage(fmt.Sprintf("img%02d.heic", i), ftypHeader("heic", 64)))
	}
	res := conv.ConvertMany(context.Background(), inputs)

	require.Len(t, res.Outcomes, 16)
	assert.Equal(t, 16, res.Succeeded)
	for i, o := range res.Outcomes {
		assert.Equal(t, fmt.Sprintf("img%02d.png", i), o.OutputName, "output order must match input order")
	}
}

func TestConvertManyEmptyBatch(t *testing.T) {
	conv := newTestConverter(t, Options{Backends: []Backend{&fakeBackend{name: "b"}}})

	res := conv.ConvertMany(context.Background(), nil)

	assert.Empty(t, res.Outcomes)
	assert.Zero(t, res.Succeeded)
	assert.Zero(t, res.Failed)
}

func TestConvertManyCancelledBatch(t *testing.T) {
	backend := &fakeBackend{name: "b", data: tinyPNG(t, 1, 1)}
	conv := newTestConverter(t, Options{Backends: []Backend{backend}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []InputImage{
		NewInputImage("f1.heic", ftypHeader("heic", 64)),
		NewInputImage("f2.heic", ftypHeader("heic", 64)),
	}
	res := conv.ConvertMany(ctx, inputs)

	require.Len(t, res.Outcomes, 2, "result slice stays aligned with inputs on cancellation")
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, int32(0), backend.calls.Load(), "cancelled files must not reach any backend")
	for _, o := range res.Outcomes {
		require.NotNil(t, o.Err)
		assert.Equal(t, KindCancelled, o.Err.Kind,
			"unstarted files are cancelled, not failed decode attempts")
		assert.ErrorIs(t, o.Err, ErrCancelled)
		assert.Contains(t, o.Err.Message, "cancelled")
		assert.Empty(t, o.Err.Attempts)
	}
}

// TestConvertScenarioValidBuffer covers the end-to-end happy path: a 2 KB
// buffer branded heic, one succeeding backend, non-empty PNG output with a
// derived name.
func TestConvertScenarioValidBuffer(t *testing.T) {
	backend := &fakeBackend{name: "b", data: tinyPNG(t, 4, 4)}
	conv := newTestConverter(t, Options{Backends: []Backend{backend}})

	res := conv.ConvertMany(context.Background(), []InputImage{
		NewInputImage("holiday.heic", ftypHeader("heic", 2048)),
	})

	require.Equal(t, 1, res.Succeeded)
	out := res.Outcomes[0]
	require.True(t, out.OK())
	assert.Equal(t, "holiday.png", out.OutputName)
	assert.NotEmpty(t, out.PNG)
	assert.True(t, bytes.HasPrefix(out.PNG, pngMagic))
}

// TestConvertScenarioGarbageBuffer covers the rejection path: a 10-byte
// garbage buffer is classified as InvalidFormat with zero attempts.
func TestConvertScenarioGarbageBuffer(t *testing.T) {
	backend := &fakeBackend{name: "b", data: tinyPNG(t, 1, 1)}
	conv := newTestConverter(t, Options{Backends: []Backend{backend}})

	res := conv.ConvertMany(context.Background(), []InputImage{
		NewInputImage("garbage.heic", []byte("0123456789")),
	})

	require.Equal(t, 1, res.Failed)
	out := res.Outcomes[0]
	require.NotNil(t, out.Err)
	assert.Equal(t, KindInvalidFormat, out.Err.Kind)
	assert.Empty(t, out.Err.Attempts)
	assert.Equal(t, int32(0), backend.calls.Load())
}
