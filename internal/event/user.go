package event

import (
	"github.com/annel0/eventpump/internal/handle"
	"github.com/annel0/eventpump/internal/native"
)

// User событие приложения: общий код KindUser или код, выданный при
// регистрации типа. Data1 и Data2 передаются через очередь как есть;
// для событий, отправленных PushCustom, Data1 содержит ссылку на значение.
type User struct {
	Header
	WindowID uint32
	Type     Kind
	Code     int32
	Data1    uint64
	Data2    uint64
}

func (e User) Kind() Kind { return e.Type }

// Payload ссылка на значение из Data1.
func (e User) Payload() handle.Handle { return handle.Handle(e.Data1) }

const (
	offUserWindow = 8
	offUserCode   = 12
	offUserData1  = 16
	offUserData2  = 24
)

func decodeUser(r *native.Record) Event {
	return User{
		Header:   header(r),
		WindowID: r.U32(offUserWindow),
		Type:     Kind(r.Type()),
		Code:     r.I32(offUserCode),
		Data1:    r.U64(offUserData1),
		Data2:    r.U64(offUserData2),
	}
}

func (e User) put(r *native.Record) {
	r.PutU32(offUserWindow, e.WindowID)
	r.PutI32(offUserCode, e.Code)
	r.PutU64(offUserData1, e.Data1)
	r.PutU64(offUserData2, e.Data2)
}
