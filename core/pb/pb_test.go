package pb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wieku/notecore/core/pb"
)

func TestFrontierFirstResultIsNew(t *testing.T) {
	var f pb.Frontier

	next, imp := f.Update(0.95, 1.0)

	assert.Equal(t, pb.New, imp.Kind)
	assert.Len(t, next.Points, 1)
}

func TestFrontierFasterAtLowerValueIsFaster(t *testing.T) {
	f := pb.Frontier{Points: []pb.Point{{Rate: 1.0, Value: 0.95}}}

	next, imp := f.Update(0.80, 1.5)

	assert.Equal(t, pb.Faster, imp.Kind)
	assert.Len(t, next.Points, 2)
}

func TestFrontierBetterAtSameRateIsBetter(t *testing.T) {
	f := pb.Frontier{Points: []pb.Point{{Rate: 1.0, Value: 0.90}}}

	next, imp := f.Update(0.95, 1.0)

	assert.Equal(t, pb.Better, imp.Kind)
	assert.InDelta(t, 0.05, imp.DeltaValue, 1e-9)
	assert.Len(t, next.Points, 1)
	assert.Equal(t, 0.95, next.Points[0].Value)
}

func TestFrontierFasterAndBetterIsFasterBetter(t *testing.T) {
	f := pb.Frontier{Points: []pb.Point{{Rate: 1.0, Value: 0.90}}}

	_, imp := f.Update(0.95, 1.5)

	assert.Equal(t, pb.FasterBetter, imp.Kind)
}

func TestFrontierDominatedResultIsNone(t *testing.T) {
	f := pb.Frontier{Points: []pb.Point{{Rate: 1.5, Value: 0.95}}}

	next, imp := f.Update(0.80, 1.0)

	assert.Equal(t, pb.None, imp.Kind)
	assert.Len(t, next.Points, 1, "dominated result must not be inserted")
}

func TestFrontierSlowerButBetterIsBetter(t *testing.T) {
	f := pb.Frontier{Points: []pb.Point{{Rate: 1.2, Value: 110}}}

	next, imp := f.Update(120, 1.1)

	assert.Equal(t, pb.Better, imp.Kind)
	assert.InDelta(t, 10, imp.DeltaValue, 1e-9)
	assert.Len(t, next.Points, 2)
}

func TestFrontierBestAtOrAbove(t *testing.T) {
	f := pb.Frontier{Points: []pb.Point{
		{Rate: 1.0, Value: 0.90},
		{Rate: 1.5, Value: 0.95},
	}}

	v, ok := f.BestAtOrAbove(1.2)
	assert.True(t, ok)
	assert.Equal(t, 0.95, v)

	_, ok = f.BestAtOrAbove(2.0)
	assert.False(t, ok)
}
