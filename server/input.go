package server

import (
	"fmt"
	"math"

	"deadfish/wire"
)

// receiveAll 每个连接尝试一次非阻塞接收；解码失败或无数据时保持原目标不变
func (l *Loop) receiveAll() {
	for i := 0; i < l.reg.Len(); i++ {
		sl := l.reg.At(i)
		rx := sl.Conn.TryReceive()
		switch rx.Kind {
		case RecvData:
			target, err := decodeTarget(rx.Data)
			if err != nil {
				l.metrics.IncMalformed()
				Log.Debugf("discard frame: entity=%d session=%s len=%d err=%v", sl.Entity.ID, sl.Conn.ID(), len(rx.Data), err)
				continue
			}
			l.reg.ApplyCommand(i, target)
			l.metrics.IncCommands()
		case RecvError:
			// 只以发送失败作为拆除依据，这里仅记录
			l.metrics.IncRecvErrors()
			Log.Debugf("receive error: entity=%d session=%s err=%v", sl.Entity.ID, sl.Conn.ID(), rx.Err)
		}
	}
}

// decodeTarget 解析 CommandMove，并拒绝 NaN/Inf 坐标
func decodeTarget(b []byte) (Vec2, error) {
	p, err := wire.DecodeCommandMove(b)
	if err != nil {
		return Vec2{}, err
	}
	x, y := float64(p.X), float64(p.Y)
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Vec2{}, fmt.Errorf("%w: non-finite target (%v, %v)", wire.ErrMalformedMessage, x, y)
	}
	return Vec2{X: x, Y: y}, nil
}
