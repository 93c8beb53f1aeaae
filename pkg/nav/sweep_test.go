package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRig couples a pan head with a sensor whose reading depends on
// the head's bearing.
type fakeRig struct {
	angle    float64
	moves    []float64
	centered int
	profile  func(angle float64) float64
}

func (r *fakeRig) MoveTo(deg float64) {
	r.angle = deg
	r.moves = append(r.moves, deg)
}

func (r *fakeRig) Center() {
	r.centered++
	r.angle = 0
}

func (r *fakeRig) ReadDistance() (float64, error) {
	return r.profile(r.angle), nil
}

func testConfig() *Config {
	cfg := NewConfig()
	cfg.Samples = 1
	cfg.SettleTime = 0
	cfg.SamplePause = 0
	cfg.MinCycle = 0
	cfg.BackoutPause = 0
	return cfg
}

func TestSweepCoversArcAndFindsBest(t *testing.T) {
	rig := &fakeRig{profile: func(angle float64) float64 {
		if angle == 40 {
			return 200
		}
		return 100
	}}
	cfg := testConfig()
	s := NewSweeper(cfg, rig, rig)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, 40.0, res.BestAngle)
	require.Equal(t, 200.0, res.MaxDistance)
	require.Len(t, res.Points, 19)
	require.Equal(t, -90.0, rig.moves[0])
	require.Equal(t, 90.0, rig.moves[len(rig.moves)-1])
}

func TestSweepTiePrefersCenter(t *testing.T) {
	rig := &fakeRig{profile: func(float64) float64 { return 150 }}
	s := NewSweeper(testConfig(), rig, rig)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, 0.0, res.BestAngle)
	require.Equal(t, 150.0, res.MaxDistance)
}

func TestSweepExcludesInvalidReadings(t *testing.T) {
	rig := &fakeRig{profile: func(angle float64) float64 {
		if angle == 0 {
			return 120
		}
		return 500 // beyond the gate
	}}
	s := NewSweeper(testConfig(), rig, rig)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, 0.0, res.BestAngle)
	require.Equal(t, 120.0, res.MaxDistance)
}

func TestSweepAllInvalid(t *testing.T) {
	rig := &fakeRig{profile: func(float64) float64 { return 0 }}
	s := NewSweeper(testConfig(), rig, rig)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.False(t, res.Valid)
}

func TestSweepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rig := &fakeRig{profile: func(angle float64) float64 {
		if angle >= -50 {
			cancel()
		}
		return 100
	}}
	s := NewSweeper(testConfig(), rig, rig)

	_, err := s.Sweep(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, len(rig.moves), 19)
}
