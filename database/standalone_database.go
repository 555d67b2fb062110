package database

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/jujunwang/Minidis/aof"
	"github.com/jujunwang/Minidis/config"
	"github.com/jujunwang/Minidis/interface/resp"
	"github.com/jujunwang/Minidis/lib/logger"
	"github.com/jujunwang/Minidis/persist"
	"github.com/jujunwang/Minidis/resp/reply"
)

// StandaloneDatabase 是单机数据库，负责持久化相关的命令，其余命令交给 DB
type StandaloneDatabase struct {
	db *DB
	// aof 持久化处理器
	aofHandler *aof.AofHandler

	capacity         int
	dumpFilename     string
	snapshotFilename string
}

// NewStandaloneDatabase 新建一个数据库实例
// 开启 loadsnapshot 时先加载快照，开启 appendonly 时再重放 aof 文件
func NewStandaloneDatabase(props *config.ServerProperties) (*StandaloneDatabase, error) {
	mdb := &StandaloneDatabase{
		db:               makeDB(props.TableCapacity),
		capacity:         props.TableCapacity,
		dumpFilename:     props.DumpFilename,
		snapshotFilename: props.SnapshotFilename,
	}
	if props.LoadSnapshot {
		err := persist.LoadSnapshotFile(mdb.snapshotFilename, mdb.db.strings, mdb.db.lists)
		switch {
		case err == nil:
			logger.Info("snapshot loaded: " + mdb.snapshotFilename)
		case os.IsNotExist(err):
			logger.Info("no snapshot file: " + mdb.snapshotFilename)
		default:
			return nil, fmt.Errorf("load snapshot %s: %w", mdb.snapshotFilename, err)
		}
	}
	if props.AppendOnly {
		// 重放期间 addAof 还是空函数，重放的命令不会被再次写入
		aofHandler, err := aof.NewAOFHandler(mdb, props.AppendFilename)
		if err != nil {
			return nil, err
		}
		mdb.aofHandler = aofHandler
		mdb.db.addAof = func(line CmdLine) {
			mdb.aofHandler.AddAof(line)
		}
	}
	return mdb, nil
}

// Exec 执行命令
// 参数'cmdLine'包含命令及其参数，例如:"set key value"
func (mdb *StandaloneDatabase) Exec(c resp.Connection, cmdLine [][]byte) (result resp.Reply) {
	defer func() {
		if err := recover(); err != nil {
			logger.Warn(fmt.Sprintf("error occurs: %v\n%s", err, string(debug.Stack())))
			result = &reply.UnknownErrReply{}
		}
	}()

	if len(cmdLine) == 0 {
		return reply.MakeInvalidCommandErrReply()
	}
	// 持久化命令需要替换整个 DB，不走命令表
	switch strings.ToLower(string(cmdLine[0])) {
	case "store":
		return execStore(mdb)
	case "load":
		return execLoad(mdb)
	case "snapshot":
		return execSnapshot(mdb)
	}
	return mdb.db.Exec(c, cmdLine)
}

// Close 优雅关闭数据库
func (mdb *StandaloneDatabase) Close() {
	if mdb.aofHandler != nil {
		mdb.aofHandler.Close()
	}
}

func (mdb *StandaloneDatabase) AfterClientClose(c resp.Connection) {
}

// execStore 把两张表写入 dump 文件
func execStore(mdb *StandaloneDatabase) resp.Reply {
	if err := persist.StoreFile(mdb.dumpFilename, mdb.db.strings, mdb.db.lists); err != nil {
		logger.Warn("store: ", err)
		return reply.MakeErrReply(err.Error())
	}
	return reply.MakeOkReply()
}

// execLoad 用 dump 文件的内容替换两张表
// 先加载到新的 DB 中，失败时原有数据保持不变
func execLoad(mdb *StandaloneDatabase) resp.Reply {
	fresh := makeDB(mdb.capacity)
	if err := persist.LoadFile(mdb.dumpFilename, fresh.strings, fresh.lists); err != nil {
		logger.Warn("load: ", err)
		return reply.MakeErrReply(err.Error())
	}
	fresh.addAof = mdb.db.addAof
	mdb.db = fresh
	// 记录加载后的内容而不是 load 本身，重放时不依赖 dump 文件
	fresh.appendContents()
	return reply.MakeOkReply()
}

// execSnapshot 把两张表写成 JSON 快照
func execSnapshot(mdb *StandaloneDatabase) resp.Reply {
	if err := persist.SaveSnapshotFile(mdb.snapshotFilename, mdb.db.strings, mdb.db.lists); err != nil {
		logger.Warn("snapshot: ", err)
		return reply.MakeErrReply(err.Error())
	}
	return reply.MakeOkReply()
}
