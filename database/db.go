// database 包是一个支持字符串和链表两种数据类型的内存数据库
package database

import (
	"github.com/jujunwang/Minidis/datastruct/dict"
	"github.com/jujunwang/Minidis/interface/resp"
	"github.com/jujunwang/Minidis/lib/utils"
	"github.com/jujunwang/Minidis/resp/reply"
	"strings"
)

// DB 存储数据、执行用户的命令
// 字符串和链表分别存放在两张哈希表中，同一个 key 可以同时存在于两张表
type DB struct {
	// key -> string
	strings *dict.ScalarDict
	// key -> list
	lists  *dict.ListDict
	addAof func(CmdLine)
}

// ExecFunc 是命令对应函数的接口
// args 不包含 cmd 列，例如：set a b -> a b
type ExecFunc func(db *DB, args [][]byte) resp.Reply

// CmdLine 代表命令行
type CmdLine = [][]byte

// makeDB 创建 DB 实例
func makeDB(capacity int) *DB {
	db := &DB{
		strings: dict.MakeScalar(capacity),
		lists:   dict.MakeList(capacity),
		addAof:  func(line CmdLine) {},
	}
	return db
}

// Exec 执行一条命令
func (db *DB) Exec(c resp.Connection, cmdLine [][]byte) resp.Reply {
	if len(cmdLine) == 0 {
		return reply.MakeInvalidCommandErrReply()
	}
	cmdName := strings.ToLower(string(cmdLine[0]))
	cmd, ok := cmdTable[cmdName]
	if !ok {
		return reply.MakeInvalidCommandErrReply()
	}
	if !validateArity(cmd.arity, cmdLine) {
		return reply.MakeArgNumErrReply()
	}
	fun := cmd.executor
	return fun(db, cmdLine[1:])
}

func validateArity(arity int, cmdArgs [][]byte) bool {
	argNum := len(cmdArgs)
	if arity >= 0 {
		return argNum == arity
	}
	return argNum >= -arity
}

// Flush 清空 database
func (db *DB) Flush() {
	db.strings.Clear()
	db.lists.Clear()
}

// execFlush 清空两张表
func execFlush(db *DB, args [][]byte) resp.Reply {
	db.Flush()
	db.addAof(utils.ToCmdLine("flush"))
	return reply.MakeOkReply()
}

// appendContents 把当前的全部数据写入 aof：先 flush，再逐个 key 重建
// 空链表通过一次 push 加一次 pop 重建表头
func (db *DB) appendContents() {
	db.addAof(utils.ToCmdLine("flush"))
	db.strings.ForEach(func(key string, val string) bool {
		db.addAof(utils.ToCmdLine("set", key, val))
		return true
	})
	db.lists.ForEach(func(key string, values []string) bool {
		if len(values) == 0 {
			db.addAof(utils.ToCmdLine("lpushback", key, "_"))
			db.addAof(utils.ToCmdLine("lpopback", key))
			return true
		}
		db.addAof(utils.ToCmdLine(append([]string{"lpushback", key}, values...)...))
		return true
	})
}

func init() {
	RegisterCommand("flush", execFlush, -1)
}
