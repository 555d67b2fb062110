package reply

import (
	"bytes"
	"github.com/jujunwang/Minidis/interface/resp"
	"strconv"
	"strings"
)

// LF 是协议的行分隔符
const LF = "\n"

/* ---- Bulk Reply ---- */

// BulkReply 存储一个值
type BulkReply struct {
	Arg string
}

// MakeBulkReply 返回一个 BulkReply
func MakeBulkReply(arg string) *BulkReply {
	return &BulkReply{
		Arg: arg,
	}
}

// ToBytes 序列化 reply
func (r *BulkReply) ToBytes() []byte {
	return []byte(r.Arg + LF)
}

/* ---- Multi Bulk Reply ---- */

// MultiBulkReply 存储一个字符串列表，序列化时用空格连接
type MultiBulkReply struct {
	Args []string
}

// MakeMultiBulkReply 新建一个 MultiBulkReply
func MakeMultiBulkReply(args []string) *MultiBulkReply {
	return &MultiBulkReply{
		Args: args,
	}
}

// ToBytes 序列化 reply
func (r *MultiBulkReply) ToBytes() []byte {
	var buf bytes.Buffer
	for i, arg := range r.Args {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(arg)
	}
	buf.WriteString(LF)
	return buf.Bytes()
}

/* ---- Status Reply ---- */

// StatusReply 存储一个string来表示状态
type StatusReply struct {
	Status string
}

// MakeStatusReply 返回 StatusReply
func MakeStatusReply(status string) *StatusReply {
	return &StatusReply{
		Status: status,
	}
}

// ToBytes 序列化 reply
func (r *StatusReply) ToBytes() []byte {
	return []byte(r.Status + LF)
}

/* ---- Int Reply ---- */

// IntReply 存储一个 int64 类型的数字
type IntReply struct {
	Code int64
}

// MakeIntReply 返回一个int类型的reply
func MakeIntReply(code int64) *IntReply {
	return &IntReply{
		Code: code,
	}
}

// ToBytes 序列化 reply
func (r *IntReply) ToBytes() []byte {
	return []byte(strconv.FormatInt(r.Code, 10) + LF)
}

/* ---- Error Reply ---- */

// ErrorReply error 类型的 reply
type ErrorReply interface {
	Error() string
	ToBytes() []byte
}

// StandardErrReply 表示处理器错误
type StandardErrReply struct {
	Status string
}

// ToBytes 序列化 reply
func (r *StandardErrReply) ToBytes() []byte {
	return []byte(r.Status + LF)
}

func (r *StandardErrReply) Error() string {
	return r.Status
}

// MakeErrReply 返回 StandardErrReply，status 中的换行会被替换为空格
func MakeErrReply(status string) *StandardErrReply {
	if !strings.HasPrefix(status, "ERR") {
		status = "ERR " + status
	}
	return &StandardErrReply{
		Status: strings.ReplaceAll(status, LF, " "),
	}
}

// IsErrorReply 如果给定的reply是错误，返回true
func IsErrorReply(reply resp.Reply) bool {
	return bytes.HasPrefix(reply.ToBytes(), []byte("ERR"))
}
