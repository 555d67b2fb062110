package reply

// UnknownErrReply 表示 UnknownErr
type UnknownErrReply struct{}

var unknownErrBytes = []byte("ERR Unknown\n")

// ToBytes 序列化 reply
func (r *UnknownErrReply) ToBytes() []byte {
	return unknownErrBytes
}

func (r *UnknownErrReply) Error() string {
	return "ERR Unknown"
}

// ArgNumErrReply 表示命令的参数数目错误
type ArgNumErrReply struct{}

var argNumErrBytes = []byte("ERR Wrong Number of Arguments\n")
var theArgNumErrReply = &ArgNumErrReply{}

// ToBytes 序列化 reply
func (r *ArgNumErrReply) ToBytes() []byte {
	return argNumErrBytes
}

func (r *ArgNumErrReply) Error() string {
	return "ERR Wrong Number of Arguments"
}

// MakeArgNumErrReply 表示命令的参数数目错误
func MakeArgNumErrReply() *ArgNumErrReply {
	return theArgNumErrReply
}

// InvalidCommandErrReply 表示未知的命令
type InvalidCommandErrReply struct{}

var invalidCommandErrBytes = []byte("ERR Invalid Command\n")
var theInvalidCommandErrReply = &InvalidCommandErrReply{}

// MakeInvalidCommandErrReply 返回 InvalidCommandErrReply
func MakeInvalidCommandErrReply() *InvalidCommandErrReply {
	return theInvalidCommandErrReply
}

// ToBytes 序列化 reply
func (r *InvalidCommandErrReply) ToBytes() []byte {
	return invalidCommandErrBytes
}

func (r *InvalidCommandErrReply) Error() string {
	return "ERR Invalid Command"
}

// InvalidIndexErrReply 表示下标不是整数
type InvalidIndexErrReply struct{}

var invalidIndexErrBytes = []byte("ERR Invalid Index\n")
var theInvalidIndexErrReply = &InvalidIndexErrReply{}

// MakeInvalidIndexErrReply 返回 InvalidIndexErrReply
func MakeInvalidIndexErrReply() *InvalidIndexErrReply {
	return theInvalidIndexErrReply
}

// ToBytes 序列化 reply
func (r *InvalidIndexErrReply) ToBytes() []byte {
	return invalidIndexErrBytes
}

func (r *InvalidIndexErrReply) Error() string {
	return "ERR Invalid Index"
}
