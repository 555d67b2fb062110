package database

import (
	"github.com/jujunwang/Minidis/interface/resp"
	"github.com/jujunwang/Minidis/resp/reply"
)

// Ping 向服务器发送PING
func Ping(db *DB, args [][]byte) resp.Reply {
	if len(args) == 0 {
		return &reply.PongReply{}
	}
	return reply.MakeStatusReply(string(args[0]))
}

func init() {
	RegisterCommand("ping", Ping, -1)
}
