package reply

// PongReply is PONG
type PongReply struct{}

var pongBytes = []byte("PONG\n")

// ToBytes 序列化 reply
func (r *PongReply) ToBytes() []byte {
	return pongBytes
}

// OkReply -> OK
type OkReply struct{}

var okBytes = []byte("OK\n")

// ToBytes 序列化 reply
func (r *OkReply) ToBytes() []byte {
	return okBytes
}

var theOkReply = new(OkReply)

// MakeOkReply 返回一个ok类型的reply
func MakeOkReply() *OkReply {
	return theOkReply
}

var nullBytes = []byte("-1\n")

// NullReply 表示 key 不存在
type NullReply struct{}

// ToBytes 序列化 reply
func (r *NullReply) ToBytes() []byte {
	return nullBytes
}

var theNullReply = new(NullReply)

// MakeNullReply 返回 NullReply
func MakeNullReply() *NullReply {
	return theNullReply
}

var emptyBytes = []byte("\n")

// EmptyReply 是一个空行，例如弹出空链表
type EmptyReply struct{}

// ToBytes 序列化 reply
func (r *EmptyReply) ToBytes() []byte {
	return emptyBytes
}

var theEmptyReply = new(EmptyReply)

// MakeEmptyReply 返回 EmptyReply
func MakeEmptyReply() *EmptyReply {
	return theEmptyReply
}
