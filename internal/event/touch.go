package event

import "github.com/annel0/eventpump/internal/native"

// MouseTouchID идентификатор "сенсора", события которого сгенерированы мышью.
const MouseTouchID int64 = -1

// Finger касание. Координаты нормализованы в [0, 1].
type Finger struct {
	TouchID  int64
	FingerID int64
	X, Y     float32
	DX, DY   float32
	Pressure float32
	WindowID uint32
}

func decodeFinger(r *native.Record) Finger {
	return Finger{
		TouchID:  r.I64(8),
		FingerID: r.I64(16),
		X:        r.F32(24),
		Y:        r.F32(28),
		DX:       r.F32(32),
		DY:       r.F32(36),
		Pressure: r.F32(40),
		WindowID: r.U32(44),
	}
}

func (f Finger) put(r *native.Record) {
	r.PutI64(8, f.TouchID)
	r.PutI64(16, f.FingerID)
	r.PutF32(24, f.X)
	r.PutF32(28, f.Y)
	r.PutF32(32, f.DX)
	r.PutF32(36, f.DY)
	r.PutF32(40, f.Pressure)
	r.PutU32(44, f.WindowID)
}

type FingerDown struct {
	Header
	Finger
}

func (FingerDown) Kind() Kind { return KindFingerDown }

type FingerUp struct {
	Header
	Finger
}

func (FingerUp) Kind() Kind { return KindFingerUp }

type FingerMotion struct {
	Header
	Finger
}

func (FingerMotion) Kind() Kind { return KindFingerMotion }

// Dollar распознанный или записанный жест $1.
type Dollar struct {
	TouchID    int64
	GestureID  int64
	NumFingers uint32
	Error      float32
	X, Y       float32
}

func decodeDollar(r *native.Record) Dollar {
	return Dollar{
		TouchID:    r.I64(8),
		GestureID:  r.I64(16),
		NumFingers: r.U32(24),
		Error:      r.F32(28),
		X:          r.F32(32),
		Y:          r.F32(36),
	}
}

type DollarGesture struct {
	Header
	Dollar
}

func (DollarGesture) Kind() Kind { return KindDollarGesture }

type DollarRecord struct {
	Header
	Dollar
}

func (DollarRecord) Kind() Kind { return KindDollarRecord }

// MultiGesture жест несколькими пальцами: поворот и щипок.
type MultiGesture struct {
	Header
	TouchID    int64
	DTheta     float32
	DDist      float32
	X, Y       float32
	NumFingers uint16
}

func (MultiGesture) Kind() Kind { return KindMultiGesture }

func decodeMultiGesture(r *native.Record) Event {
	return MultiGesture{
		Header:     header(r),
		TouchID:    r.I64(8),
		DTheta:     r.F32(16),
		DDist:      r.F32(20),
		X:          r.F32(24),
		Y:          r.F32(28),
		NumFingers: r.U16(32),
	}
}
