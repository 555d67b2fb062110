package database

import (
	"github.com/jujunwang/Minidis/interface/resp"
)

// CmdLine 代表命令行
type CmdLine = [][]byte

// Database 是存储引擎对外的接口
type Database interface {
	Exec(client resp.Connection, args [][]byte) resp.Reply
	AfterClientClose(c resp.Connection)
	Close()
}
