package database

import (
	"github.com/jujunwang/Minidis/interface/resp"
	"github.com/jujunwang/Minidis/lib/utils"
	"github.com/jujunwang/Minidis/resp/reply"
)

// execGet 返回对应 key 的 string
func execGet(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	val, ok := db.strings.Get(key)
	if !ok {
		return reply.MakeNullReply()
	}
	return reply.MakeBulkReply(val)
}

// execSet 设置给定的 k v 键值对，已存在时覆盖
func execSet(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	value := string(args[1])
	db.strings.Put(key, value)
	db.addAof(utils.ToCmdLine2("set", args[:2]...))
	return reply.MakeOkReply()
}

// execDel 删除 key，返回删除的个数
func execDel(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	deleted := db.strings.Remove(key)
	if deleted > 0 {
		db.addAof(utils.ToCmdLine2("del", args[0]))
	}
	return reply.MakeIntReply(int64(deleted))
}

// execKeys 返回所有字符串类型的 key
func execKeys(db *DB, args [][]byte) resp.Reply {
	return reply.MakeMultiBulkReply(db.strings.Keys())
}

func init() {
	RegisterCommand("set", execSet, -3)
	RegisterCommand("get", execGet, -2)
	RegisterCommand("del", execDel, -2)
	RegisterCommand("keys", execKeys, -1)
}
