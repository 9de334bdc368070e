package server

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Vec2 世界坐标（仿真内部使用 float64，上线时转为 float32）
type Vec2 struct {
	X float64 `yaml:"x" toml:"x" json:"x"`
	Y float64 `yaml:"y" toml:"y" json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return o.Sub(v).Len() }

// HeadingPolicy 朝向更新策略
type HeadingPolicy string

const (
	// PolicyTurn 每 Tick 最多转 TurnRate 度，按较短方向转向目标
	PolicyTurn HeadingPolicy = "turn"
	// PolicySnap 每 Tick 直接对准目标方向
	PolicySnap HeadingPolicy = "snap"
)

// headingOffset 渲染端模型的前方为 +Y，与 atan2 的 +X 参考轴差 90°
const headingOffset = 90.0

var ErrUnknownPolicy = errors.New("unknown heading policy")

func ParsePolicy(s string) (HeadingPolicy, error) {
	switch HeadingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyTurn:
		return PolicyTurn, nil
	case PolicySnap:
		return PolicySnap, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Steering 单个实体每 Tick 的运动模型：匀速直线逼近目标，不做加减速
type Steering struct {
	Policy           HeadingPolicy
	ArrivalThreshold float64
	Speed            float64
	TurnRate         float64
}

// Steer 纯函数：根据当前位置、朝向与目标，给出下一 Tick 的位置与朝向。
// 距离不超过到达阈值时原样返回（零向量永远不会被归一化）。
func (s Steering) Steer(pos Vec2, heading float64, target Vec2) (Vec2, float64) {
	d := target.Sub(pos)
	dist := d.Len()
	if dist <= s.ArrivalThreshold || dist == 0 {
		return pos, heading
	}
	dir := d.Scale(1 / dist)
	next := pos.Add(dir.Scale(s.Speed))

	want := math.Atan2(dir.Y, dir.X)*180/math.Pi + headingOffset
	if s.Policy == PolicySnap {
		return next, wrapDegrees(want)
	}
	return next, turnToward(heading, want, s.TurnRate)
}

// turnToward 从 cur 向 want 转动，单次不超过 rate 度
func turnToward(cur, want, rate float64) float64 {
	diff := wrapDegrees(want - cur)
	switch {
	case math.Abs(diff) <= rate:
		return wrapDegrees(want)
	case diff > 0:
		return wrapDegrees(cur + rate)
	default:
		return wrapDegrees(cur - rate)
	}
}

// wrapDegrees 归一化到 (-180, 180]
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}
