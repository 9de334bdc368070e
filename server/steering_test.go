package server

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultSteering(policy HeadingPolicy) Steering {
	return Steering{Policy: policy, ArrivalThreshold: 3, Speed: 3, TurnRate: 5}
}

func TestSteerMovesTowardTarget(t *testing.T) {
	s := defaultSteering(PolicySnap)
	pos, heading := s.Steer(Vec2{0, 0}, 0, Vec2{100, 100})

	want := 3 / math.Sqrt2
	assert.InDelta(t, want, pos.X, 1e-9)
	assert.InDelta(t, want, pos.Y, 1e-9)
	assert.InDelta(t, 2.12, pos.X, 0.01)
	assert.InDelta(t, 135.0, heading, 1e-9, "45° 方向加 90° 偏移")
}

func TestSteerArrivedIsUnchanged(t *testing.T) {
	for _, policy := range []HeadingPolicy{PolicySnap, PolicyTurn} {
		s := defaultSteering(policy)

		pos, heading := s.Steer(Vec2{10, 10}, 42, Vec2{10, 11})
		assert.Equal(t, Vec2{10, 10}, pos)
		assert.Equal(t, 42.0, heading)

		// 恰好在阈值上也算到达
		pos, heading = s.Steer(Vec2{0, 0}, -7, Vec2{3, 0})
		assert.Equal(t, Vec2{0, 0}, pos)
		assert.Equal(t, -7.0, heading)

		// 零位移不做归一化
		pos, heading = s.Steer(Vec2{5, 5}, 1, Vec2{5, 5})
		assert.Equal(t, Vec2{5, 5}, pos)
		assert.Equal(t, 1.0, heading)
	}
}

func TestSteerStepLengthProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := defaultSteering(PolicyTurn)
	for i := 0; i < 500; i++ {
		pos := Vec2{rng.Float64()*200 - 100, rng.Float64()*200 - 100}
		target := Vec2{rng.Float64()*200 - 100, rng.Float64()*200 - 100}
		heading := rng.Float64()*360 - 180

		next, nextHeading := s.Steer(pos, heading, target)
		if pos.Dist(target) <= s.ArrivalThreshold {
			assert.Equal(t, pos, next)
			assert.Equal(t, heading, nextHeading)
			continue
		}
		assert.InDelta(t, s.Speed, pos.Dist(next), 1e-9)
		// 新位置在朝向目标的直线上
		assert.InDelta(t, pos.Dist(target)-s.Speed, next.Dist(target), 1e-9)
		assert.LessOrEqual(t, math.Abs(wrapDegrees(nextHeading-heading)), s.TurnRate+1e-9)
	}
}

func TestSteerSnapHeadings(t *testing.T) {
	s := defaultSteering(PolicySnap)
	cases := []struct {
		target Vec2
		want   float64
	}{
		{Vec2{10, 0}, 90},
		{Vec2{0, 10}, 180},
		{Vec2{-10, 0}, -90},
		{Vec2{0, -10}, 0},
	}
	for _, c := range cases {
		_, h := s.Steer(Vec2{0, 0}, 33, c.target)
		assert.InDelta(t, c.want, h, 1e-9, "target %v", c.target)
	}
}

func TestSteerTurnIsRateLimited(t *testing.T) {
	s := defaultSteering(PolicyTurn)

	_, h := s.Steer(Vec2{0, 0}, 0, Vec2{100, 100})
	assert.InDelta(t, 5.0, h, 1e-9)

	// 目标在 -90°，从 0° 出发应逆时针转
	_, h = s.Steer(Vec2{0, 0}, 0, Vec2{-100, 0})
	assert.InDelta(t, -5.0, h, 1e-9)

	// 差值小于转速时直接对准
	_, h = s.Steer(Vec2{0, 0}, 88, Vec2{10, 0})
	assert.InDelta(t, 90.0, h, 1e-9)
}

func TestSteerTurnTakesShorterWayAcrossWrap(t *testing.T) {
	s := defaultSteering(PolicyTurn)
	// 目标朝向 -170°（即 190°），当前 170°：应正向转 5° 而非反向转 340°
	target := Vec2{math.Cos((-170 - 90) * math.Pi / 180), math.Sin((-170 - 90) * math.Pi / 180)}.Scale(100)

	_, h := s.Steer(Vec2{0, 0}, 170, target)
	assert.InDelta(t, 175.0, h, 1e-6)

	_, h = s.Steer(Vec2{0, 0}, 178, target)
	assert.InDelta(t, -177.0, h, 1e-6)
}

func TestWrapDegrees(t *testing.T) {
	assert.Equal(t, 0.0, wrapDegrees(0))
	assert.Equal(t, 180.0, wrapDegrees(180))
	assert.Equal(t, 180.0, wrapDegrees(-180))
	assert.Equal(t, 180.0, wrapDegrees(540))
	assert.Equal(t, -90.0, wrapDegrees(270))
	assert.Equal(t, 90.0, wrapDegrees(-270))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(" Snap ")
	assert.NoError(t, err)
	assert.Equal(t, PolicySnap, p)

	_, err = ParsePolicy("spin")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
