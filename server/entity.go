package server

import "deadfish/wire"

// Entity 一个连接对应的模拟化身（服务端权威状态）
type Entity struct {
	ID       uint16
	Position Vec2
	Heading  float64 // 度
	Target   Vec2    // 最近一次收到的移动目标

	State   wire.MobState
	Species uint8
}

func newEntity(id uint16, spawn, target Vec2) *Entity {
	return &Entity{
		ID:       id,
		Position: spawn,
		Target:   target,
		State:    wire.MobStateWalking,
	}
}

// record 转换为快照中的线上记录
func (e *Entity) record() wire.MobRecord {
	return wire.MobRecord{
		ID:      e.ID,
		Pos:     wire.Point{X: float32(e.Position.X), Y: float32(e.Position.Y)},
		Angle:   float32(e.Heading),
		State:   e.State,
		Species: e.Species,
	}
}
