package database

import (
	"github.com/jujunwang/Minidis/datastruct/dict"
	"github.com/jujunwang/Minidis/interface/resp"
	"github.com/jujunwang/Minidis/lib/utils"
	"github.com/jujunwang/Minidis/resp/reply"
	"strconv"
)

var (
	emptyListReply   = reply.MakeStatusReply("Empty List")
	invalidKeyReply  = reply.MakeStatusReply("Invalid Key")
	outOfBoundsReply = reply.MakeStatusReply("Index Out of Bounds")
)

func parseIndex(arg []byte) (int, bool) {
	index, err := strconv.Atoi(string(arg))
	if err != nil {
		return 0, false
	}
	return index, true
}

// execLPushBack 把所有 value 依次追加到链表尾部
func execLPushBack(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	values := args[1:]
	for _, value := range values {
		db.lists.PushBack(key, string(value))
	}
	if len(values) > 0 {
		db.addAof(utils.ToCmdLine2("lpushback", args...))
	}
	return reply.MakeOkReply()
}

// execLPushFront 把所有 value 依次插入到链表头部，结果顺序与输入相反
func execLPushFront(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	values := args[1:]
	for _, value := range values {
		db.lists.PushFront(key, string(value))
	}
	if len(values) > 0 {
		db.addAof(utils.ToCmdLine2("lpushfront", args...))
	}
	return reply.MakeOkReply()
}

// execLGet 有下标时返回对应元素，否则返回整个链表
func execLGet(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	if len(args) > 1 {
		index, ok := parseIndex(args[1])
		if !ok {
			return reply.MakeInvalidIndexErrReply()
		}
		val, err := db.lists.Index(key, index)
		switch err {
		case nil:
			return reply.MakeBulkReply(val)
		case dict.ErrNoSuchKey:
			return invalidKeyReply
		default:
			return outOfBoundsReply
		}
	}

	values, ok := db.lists.Values(key)
	if !ok {
		return reply.MakeNullReply()
	}
	if len(values) == 0 {
		return emptyListReply
	}
	return reply.MakeMultiBulkReply(values)
}

func execLPopBack(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	val, ok := db.lists.PopBack(key)
	if !ok {
		return reply.MakeEmptyReply()
	}
	db.addAof(utils.ToCmdLine2("lpopback", args[0]))
	return reply.MakeBulkReply(val)
}

func execLPopFront(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	val, ok := db.lists.PopFront(key)
	if !ok {
		return reply.MakeEmptyReply()
	}
	db.addAof(utils.ToCmdLine2("lpopfront", args[0]))
	return reply.MakeBulkReply(val)
}

// execLDel 有下标时删除对应元素，否则删除整个链表
func execLDel(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	if len(args) > 1 {
		index, ok := parseIndex(args[1])
		if !ok {
			return reply.MakeInvalidIndexErrReply()
		}
		if err := db.lists.RemoveAt(key, index); err != nil {
			return reply.MakeIntReply(0)
		}
		db.addAof(utils.ToCmdLine2("ldel", args[:2]...))
		return reply.MakeIntReply(1)
	}

	if !db.lists.Remove(key) {
		return reply.MakeIntReply(0)
	}
	db.addAof(utils.ToCmdLine2("ldel", args[0]))
	return reply.MakeIntReply(1)
}

func execLKeys(db *DB, args [][]byte) resp.Reply {
	return reply.MakeMultiBulkReply(db.lists.Keys())
}

// execLEmpty key 不存在或链表为空时返回 TRUE
func execLEmpty(db *DB, args [][]byte) resp.Reply {
	key := string(args[0])
	n, _ := db.lists.ListLen(key)
	if n == 0 {
		return reply.MakeStatusReply("TRUE")
	}
	return reply.MakeStatusReply("FALSE")
}

func init() {
	RegisterCommand("lset", execLPushBack, -2)
	RegisterCommand("lpushback", execLPushBack, -2)
	RegisterCommand("lpushfront", execLPushFront, -2)
	RegisterCommand("lget", execLGet, -2)
	RegisterCommand("lpopback", execLPopBack, -2)
	RegisterCommand("lpopfront", execLPopFront, -2)
	RegisterCommand("ldel", execLDel, -2)
	RegisterCommand("lkeys", execLKeys, -1)
	RegisterCommand("lempty", execLEmpty, -2)
}
