package compute_test

import (
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PlayWithoutProgram(t *testing.T) {
	d := compute.NewDispatcher(nil, "Gen2D", group2D, nil)
	assert.False(t, d.IsValid())
	assert.ErrorIs(t, d.Play(true), compute.ErrNotReady)
}

func TestDispatcher_PlayDispatchesThreadGroup(t *testing.T) {
	dev := newTestDevice()
	prog := loadProbe(t, dev)
	d := compute.NewDispatcher(prog, "Gen2D", compute.ThreadGroupShape{X: 2, Y: 3, Z: 1}, nil)
	d.Parameters = []compute.Parameter{
		compute.NewIntParameter("seed", 1),
		compute.NewIntParameter("seed", 9),
	}
	require.NoError(t, d.Play(false))

	rec, ok := prog.LastDispatch()
	require.True(t, ok)
	assert.Equal(t, "Gen2D", rec.Kernel)
	assert.Equal(t, compute.ThreadGroupShape{X: 2, Y: 3, Z: 1}, rec.Grid)
	seed, _ := prog.Int("seed")
	assert.EqualValues(t, 9, seed, "later bindings of the same name win")
	assert.Nil(t, d.Result())
	assert.Zero(t, d.Elapsed())
}

func TestDispatcher_UnknownKernel(t *testing.T) {
	prog := loadProbe(t, newTestDevice())
	d := compute.NewDispatcher(prog, "Nope", group2D, nil)
	assert.ErrorIs(t, d.Play(true), compute.ErrKernelNotFound)
}

func TestDispatcher_Timing(t *testing.T) {
	prog := loadProbe(t, newTestDevice())
	d := compute.NewDispatcher(prog, "Gen2D", group2D, nil)

	require.NoError(t, d.Play(true))
	first := d.Elapsed()
	assert.Positive(t, first)
	assert.InDelta(t, float64(first.Nanoseconds())/1e6, d.ElapsedMs(), 1e-9)

	require.NoError(t, d.Play(false))
	assert.Equal(t, first, d.Elapsed(), "untimed play keeps the last measurement")
}

func TestDispatcher_RestoreLogsDroppedEntries(t *testing.T) {
	rec := logging.NewRecorder()
	d := compute.NewDispatcher(nil, "Gen2D", group2D, rec)
	restored, err := d.RestoreParameters(nil, `Int_{"binding":"seed","value":2}|Mystery_{}`)
	assert.True(t, restored)
	assert.Error(t, err)
	assert.Len(t, d.Parameters, 1)
	assert.Len(t, rec.Entries("WARN"), 1)

	blob, err := d.EncodeParameters(nil)
	require.NoError(t, err)
	assert.Equal(t, `Int_{"binding":"seed","value":2}`, blob)
}
