package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earthpath/pkg/errors"
	"earthpath/pkg/metrics"
	"earthpath/pkg/profile"
)

func newTestEngine() *Engine {
	return New(profile.NewRegistry()).WithMetrics(&metrics.Metrics{})
}

func TestGenerateDefaultPod(t *testing.T) {
	res, err := newTestEngine().Generate(context.Background(), Request{
		Typology: "single_pod",
	})
	require.NoError(t, err)

	// Default pod: 3.2m at 20mm layers.
	assert.Equal(t, 160, res.LayerCount)
	assert.Equal(t, "WASP Crane", res.Profile.Name)
	assert.Equal(t, "Standard Earth Mix", res.Mix.Name)
	assert.Contains(t, res.GCode, "G21 ; Set units to millimeters")
	assert.Contains(t, res.GCode, "M84 ; Disable motors")
}

func TestGenerateViolationIsNotFatal(t *testing.T) {
	// The default 6.5m pod exceeds the 3.0m crane reach. Generation
	// proceeds; the report records the violation.
	res, err := newTestEngine().Generate(context.Background(), Request{
		Typology: "single_pod",
	})
	require.NoError(t, err)
	assert.False(t, res.Report.WithinEnvelope())
	require.Len(t, res.Report.Violations(), 1)
	assert.Equal(t, "reach_radius_m", res.Report.Violations()[0].Field)
	assert.NotEmpty(t, res.GCode)
}

func TestGenerateStraightWallOnCobod(t *testing.T) {
	res, err := newTestEngine().Generate(context.Background(), Request{
		Typology:  "straight_wall",
		LengthM:   10.0,
		HeightM:   3.0,
		PrinterID: "cobod_bod2",
	})
	require.NoError(t, err)

	// 3.0m at the BOD2 default 25mm layers.
	assert.Equal(t, 120, res.LayerCount)
	assert.True(t, res.Report.WithinEnvelope())
}

func TestGenerateSpiralWithInfillFlagIgnored(t *testing.T) {
	// Spiral shells have no annulus; the infill flag is a no-op.
	res, err := newTestEngine().Generate(context.Background(), Request{
		Typology: "spiral_vase",
		Infill:   true,
	})
	require.NoError(t, err)
	assert.NotContains(t, res.GCode, "Hex ring")
}

func TestGenerateInfillRings(t *testing.T) {
	res, err := newTestEngine().Generate(context.Background(), Request{
		Typology:  "single_pod",
		DiameterM: 5.0,
		Infill:    true,
	})
	require.NoError(t, err)
	assert.Contains(t, res.GCode, "Hex ring")
}

func TestGenerateExplicitLayerHeight(t *testing.T) {
	res, err := newTestEngine().Generate(context.Background(), Request{
		Typology:      "single_pod",
		HeightM:       3.2,
		LayerHeightMM: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 320, res.LayerCount)
}

func TestGenerateUnknownTypology(t *testing.T) {
	_, err := newTestEngine().Generate(context.Background(), Request{
		Typology: "dome",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigTypology))
}

func TestGenerateUnknownMaterial(t *testing.T) {
	_, err := newTestEngine().Generate(context.Background(), Request{
		Typology: "single_pod",
		Material: "concrete",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigMaterial))
}

func TestGenerateDegenerateGeometry(t *testing.T) {
	_, err := newTestEngine().Generate(context.Background(), Request{
		Typology:       "single_pod",
		DiameterM:      0.5,
		WallThicknessM: 0.30,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrGeometryDegenerate))
}

func TestGenerateDeterministic(t *testing.T) {
	eng := newTestEngine()
	req := Request{Typology: "single_pod", Infill: true, Material: "thermal"}

	a, err := eng.Generate(context.Background(), req)
	require.NoError(t, err)
	b, err := eng.Generate(context.Background(), req)
	require.NoError(t, err)

	if diff := cmp.Diff(a.GCode, b.GCode); diff != "" {
		t.Fatalf("instruction output differs between runs:\n%s", diff)
	}
}

func TestGenerateRecordsMetrics(t *testing.T) {
	m := &metrics.Metrics{}
	eng := New(profile.NewRegistry()).WithMetrics(m)

	_, err := eng.Generate(context.Background(), Request{Typology: "single_pod"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.Generations())
	assert.Contains(t, m.Render(), "earthpath_envelope_violations_total 1\n")
}

func TestBatchPreservesOrderAndIsolatesFailures(t *testing.T) {
	reqs := []Request{
		{Typology: "single_pod", DiameterM: 5.0},
		{Typology: "no_such_shape"},
		{Typology: "straight_wall"},
		{Typology: "spiral_vase"},
	}

	items := newTestEngine().Batch(context.Background(), reqs, 2)
	require.Len(t, items, 4)

	require.NoError(t, items[0].Err)
	assert.Equal(t, "single_pod", items[0].Result.Descriptor.Typology())

	require.Error(t, items[1].Err)
	assert.Nil(t, items[1].Result)

	require.NoError(t, items[2].Err)
	require.NoError(t, items[3].Err)
	assert.True(t, strings.Contains(items[3].Result.GCode, "Continuous spiral"))
}

func TestBatchSingleWorker(t *testing.T) {
	reqs := []Request{
		{Typology: "single_pod", DiameterM: 5.0},
		{Typology: "single_pod", DiameterM: 5.5},
	}
	items := newTestEngine().Batch(context.Background(), reqs, 0)
	for i, item := range items {
		require.NoError(t, item.Err, "request %d", i)
	}
}

func TestBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := newTestEngine().Batch(ctx, []Request{{Typology: "single_pod"}}, 1)
	require.Len(t, items, 1)
	require.Error(t, items[0].Err)
	assert.ErrorIs(t, items[0].Err, context.Canceled)
}
