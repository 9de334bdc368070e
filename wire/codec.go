package wire

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

// ErrMalformedMessage 入站帧无法解释为合法的消息表
var ErrMalformedMessage = errors.New("malformed message")

const (
	vec2Size = 8

	// MinCommandSize CommandMove 的最小可能编码长度：
	// 根偏移 + 表的 vtable 偏移 + 单字段 vtable + 内联 Vec2。
	// 低于此长度的帧（心跳、控制帧等）直接判定为非移动指令。
	MinCommandSize = flatbuffers.SizeUOffsetT + flatbuffers.SizeSOffsetT + 3*flatbuffers.SizeVOffsetT + vec2Size
)

// Point 解码后的二维坐标（与 schema 中的 Vec2 对应）
type Point struct {
	X float32
	Y float32
}

// MobRecord 快照中的单个实体记录
type MobRecord struct {
	ID      uint16
	Pos     Point
	Angle   float32
	State   MobState
	Species uint8
}

// DecodeCommandMove 解析客户端的移动指令，返回目标坐标。
// 所有偏移都先做越界检查，任意输入都不会 panic。
func DecodeCommandMove(buf []byte) (Point, error) {
	if len(buf) < MinCommandSize {
		return Point{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedMessage, len(buf), MinCommandSize)
	}
	root, err := indirect(buf, 0)
	if err != nil {
		return Point{}, err
	}
	pos, err := field(buf, root, 0, vec2Size)
	if err != nil {
		return Point{}, err
	}
	if pos == 0 {
		return Point{}, fmt.Errorf("%w: command has no target", ErrMalformedMessage)
	}

	cmd := GetRootAsCommandMove(buf, 0)
	var v Vec2
	cmd.Target(&v)
	return Point{X: v.X(), Y: v.Y()}, nil
}

// EncodeCommandMove 构造移动指令（客户端与测试使用，服务端不发送）
func EncodeCommandMove(target Point) []byte {
	b := flatbuffers.NewBuilder(32)
	CommandMoveStart(b)
	CommandMoveAddTarget(b, CreateVec2(b, target.X, target.Y))
	b.Finish(CommandMoveEnd(b))
	return b.FinishedBytes()
}

// Encoder 复用 FlatBufferBuilder 编码世界快照；非并发安全，仅由 Tick 协程持有
type Encoder struct {
	b    *flatbuffers.Builder
	offs []flatbuffers.UOffsetT
}

func NewEncoder() *Encoder {
	return &Encoder{b: flatbuffers.NewBuilder(1024)}
}

// Encode 将全部实体编码为一条自包含的 WorldState 消息。
// 返回的切片归调用方所有，不随下一次 Encode 改变。
func (e *Encoder) Encode(mobs []MobRecord) []byte {
	b := e.b
	b.Reset()
	e.offs = e.offs[:0]
	for _, m := range mobs {
		MobStart(b)
		MobAddId(b, m.ID)
		MobAddPos(b, CreateVec2(b, m.Pos.X, m.Pos.Y))
		MobAddAngle(b, m.Angle)
		MobAddState(b, m.State)
		MobAddSpecies(b, m.Species)
		e.offs = append(e.offs, MobEnd(b))
	}
	WorldStateStartMobsVector(b, len(e.offs))
	for i := len(e.offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(e.offs[i])
	}
	vec := b.EndVector(len(e.offs))

	WorldStateStart(b)
	WorldStateAddMobs(b, vec)
	b.Finish(WorldStateEnd(b))

	out := make([]byte, len(b.FinishedBytes()))
	copy(out, b.FinishedBytes())
	return out
}

// EncodeWorldState 一次性编码快照
func EncodeWorldState(mobs []MobRecord) []byte {
	return NewEncoder().Encode(mobs)
}

// DecodeWorldState 解析服务端快照（客户端与测试使用）
func DecodeWorldState(buf []byte) ([]MobRecord, error) {
	root, err := indirect(buf, 0)
	if err != nil {
		return nil, err
	}
	vecField, err := field(buf, root, 0, flatbuffers.SizeUOffsetT)
	if err != nil {
		return nil, err
	}
	if vecField == 0 {
		return []MobRecord{}, nil
	}
	start, n, err := vector(buf, vecField)
	if err != nil {
		return nil, err
	}

	ws := GetRootAsWorldState(buf, 0)
	out := make([]MobRecord, 0, n)
	var mob Mob
	var pos Vec2
	for i := 0; i < n; i++ {
		tab, err := indirect(buf, start+uint32(i*flatbuffers.SizeUOffsetT))
		if err != nil {
			return nil, err
		}
		if err := checkMob(buf, tab); err != nil {
			return nil, err
		}
		ws.Mobs(&mob, i)
		rec := MobRecord{
			ID:      mob.Id(),
			Angle:   mob.Angle(),
			State:   mob.State(),
			Species: mob.Species(),
		}
		if mob.Pos(&pos) != nil {
			rec.Pos = Point{X: pos.X(), Y: pos.Y()}
		}
		out = append(out, rec)
	}
	return out, nil
}

// mob 表各字段的宽度，按 slot 顺序
var mobFieldSizes = [...]uint32{2, vec2Size, 4, 1, 1}

func checkMob(buf []byte, tab uint32) error {
	for slot, size := range mobFieldSizes {
		if _, err := field(buf, tab, slot, size); err != nil {
			return err
		}
	}
	return nil
}

// indirect 读取 off 处的 uoffset，返回其指向的表位置
func indirect(buf []byte, off uint32) (uint32, error) {
	if uint64(off)+flatbuffers.SizeUOffsetT > uint64(len(buf)) {
		return 0, fmt.Errorf("%w: offset %d out of range", ErrMalformedMessage, off)
	}
	pos := uint64(off) + uint64(flatbuffers.GetUOffsetT(buf[off:]))
	if pos+flatbuffers.SizeSOffsetT > uint64(len(buf)) {
		return 0, fmt.Errorf("%w: table at %d out of range", ErrMalformedMessage, pos)
	}
	return uint32(pos), nil
}

// field 返回 tab 表第 slot 个字段的绝对位置；字段缺省时返回 0
func field(buf []byte, tab uint32, slot int, size uint32) (uint32, error) {
	n := int64(len(buf))
	vt := int64(tab) - int64(flatbuffers.GetSOffsetT(buf[tab:]))
	if vt < 0 || vt+2*flatbuffers.SizeVOffsetT > n {
		return 0, fmt.Errorf("%w: vtable at %d out of range", ErrMalformedMessage, vt)
	}
	vtSize := int64(flatbuffers.GetVOffsetT(buf[vt:]))
	// vtable 由 2 字节条目组成，奇数长度必为损坏数据
	if vtSize < 2*flatbuffers.SizeVOffsetT || vtSize%flatbuffers.SizeVOffsetT != 0 || vt+vtSize > n {
		return 0, fmt.Errorf("%w: bad vtable size %d", ErrMalformedMessage, vtSize)
	}
	entry := int64(2+slot) * flatbuffers.SizeVOffsetT
	if entry+flatbuffers.SizeVOffsetT > vtSize {
		return 0, nil
	}
	o := int64(flatbuffers.GetVOffsetT(buf[vt+entry:]))
	if o == 0 {
		return 0, nil
	}
	pos := int64(tab) + o
	if pos+int64(size) > n {
		return 0, fmt.Errorf("%w: field %d out of range", ErrMalformedMessage, slot)
	}
	return uint32(pos), nil
}

// vector 返回表向量首元素位置与元素个数
func vector(buf []byte, fieldPos uint32) (uint32, int, error) {
	vec, err := indirect(buf, fieldPos)
	if err != nil {
		return 0, 0, err
	}
	n := uint64(flatbuffers.GetUOffsetT(buf[vec:]))
	end := uint64(vec) + flatbuffers.SizeUOffsetT + n*flatbuffers.SizeUOffsetT
	if end > uint64(len(buf)) {
		return 0, 0, fmt.Errorf("%w: vector of %d elements out of range", ErrMalformedMessage, n)
	}
	return vec + flatbuffers.SizeUOffsetT, int(n), nil
}
