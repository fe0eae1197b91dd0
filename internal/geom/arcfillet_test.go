package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilletLineArcOutside(t *testing.T) {
	t.Parallel()

	center := Pt(10, 7)
	r, err := FilletLineArc(Seg(Pt(0, 0), Pt(20, 0)), center, 2, math.Pi/2, 3*math.Pi/2, 3, Pt(2, 0), Pt(8, 7))
	require.NoError(t, err)

	assert.False(t, r.Corner)
	assert.Equal(t, 3.0, r.Radius)
	assertPoint(t, Pt(7, 3), r.Center)
	assertPoint(t, Pt(7, 0), r.Tangent1)
	assertPoint(t, Pt(8.8, 5.4), r.Tangent2)
	assert.Equal(t, EndEnd, r.Trim1)
	assert.Equal(t, EndEnd, r.Trim2)

	// externally tangent to the arc circle
	assert.InDelta(t, 5, r.Center.Dist(center), tol)
	assertPoint(t, r.Tangent1, r.Center.Polar(r.Radius, r.StartAngle))
	assertPoint(t, r.Tangent2, r.Center.Polar(r.Radius, r.EndAngle))
}

func TestFilletLineArcInside(t *testing.T) {
	t.Parallel()

	// chord y=-6 of a radius 10 circle, filleted against the lower arc
	pickArc := Pt(0, 0).Polar(10, Radians(250))
	r, err := FilletLineArc(Seg(Pt(-8, -6), Pt(8, -6)), Pt(0, 0), 10, math.Pi, 2*math.Pi, 1.5, Pt(2, -6), pickArc)
	require.NoError(t, err)

	assertPoint(t, Pt(-4, -7.5), r.Center)
	assertPoint(t, Pt(-4, -6), r.Tangent1)
	assertPoint(t, Pt(-40/8.5, -75/8.5), r.Tangent2)
	assert.Equal(t, StartEnd, r.Trim1)
	assert.Equal(t, StartEnd, r.Trim2)
	assert.InDelta(t, 8.5, r.Center.Len(), tol)
}

func TestFilletLineArcZeroRadius(t *testing.T) {
	t.Parallel()

	center := Pt(10, 3)
	r, err := FilletLineArc(Seg(Pt(0, 0), Pt(20, 0)), center, 5, math.Pi, 2*math.Pi, 0, Pt(0, 0), center.Polar(5, Radians(200)))
	require.NoError(t, err)

	assert.True(t, r.Corner)
	assertPoint(t, Pt(6, 0), r.Intersection)
	assertPoint(t, Pt(6, 0), r.Tangent1)
	assertPoint(t, Pt(6, 0), r.Tangent2)
	assert.Equal(t, EndEnd, r.Trim1)
	assert.Equal(t, EndEnd, r.Trim2)
}

func TestFilletLineArcFailures(t *testing.T) {
	t.Parallel()

	horizontal := Seg(Pt(0, 0), Pt(20, 0))

	_, err := FilletLineArc(horizontal, Pt(10, 7), 2, 0, math.Pi, -1, Pt(1, 0), Pt(10, 9))
	assert.ErrorIs(t, err, ErrNegative)

	_, err = FilletLineArc(horizontal, Pt(10, 20), 2, 0, math.Pi, 1, Pt(1, 0), Pt(10, 22))
	assert.ErrorIs(t, err, ErrNoFillet)

	// inside a circle the fillet must be smaller than the circle
	_, err = FilletLineArc(Seg(Pt(-5, 0), Pt(5, 0)), Pt(0, 0), 2, math.Pi, 2*math.Pi, 3, Pt(0, 0), Pt(0, -2))
	assert.ErrorIs(t, err, ErrNonPositiveRadius)

	_, err = FilletLineArc(Seg(Pt(1, 1), Pt(1, 1)), Pt(0, 0), 2, 0, math.Pi, 1, Pt(1, 1), Pt(0, 2))
	assert.ErrorIs(t, err, ErrZeroLength)
}

func TestArcTrimEnd(t *testing.T) {
	t.Parallel()

	// inside the sweep the pick chooses the surviving part
	assert.Equal(t, EndEnd, arcTrimEnd(Radians(60), 0, Radians(90), Radians(30)))
	assert.Equal(t, StartEnd, arcTrimEnd(Radians(60), 0, Radians(90), Radians(80)))
	// outside the sweep the nearer end extends
	assert.Equal(t, EndEnd, arcTrimEnd(Radians(100), 0, Radians(90), Radians(45)))
	assert.Equal(t, StartEnd, arcTrimEnd(Radians(-10), 0, Radians(90), Radians(45)))
}
