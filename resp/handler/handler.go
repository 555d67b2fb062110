package handler

/*
 * Handler 把一行命令交给数据库执行，并把响应写回连接
 */

import (
	"context"

	databaseface "github.com/jujunwang/Minidis/interface/database"
	"github.com/jujunwang/Minidis/interface/resp"
	"github.com/jujunwang/Minidis/lib/logger"
	"github.com/jujunwang/Minidis/lib/sync/atomic"
	"github.com/jujunwang/Minidis/resp/parser"
)

var (
	unknownErrReplyBytes = []byte("ERR Unknown\n")
)

// Handler 实现了 tcp.Handler
// 所有方法都由事件循环调用，activeConn 不需要加锁
type Handler struct {
	activeConn map[resp.Connection]struct{}
	db         databaseface.Database
	closing    atomic.Boolean // refusing new request
}

// MakeHandler 新建一个 Handler 实例
func MakeHandler(db databaseface.Database) *Handler {
	return &Handler{
		activeConn: make(map[resp.Connection]struct{}),
		db:         db,
	}
}

// Handle 解析并执行一行命令
func (h *Handler) Handle(ctx context.Context, conn resp.Connection, line []byte) {
	if h.closing.Get() {
		return
	}
	h.activeConn[conn] = struct{}{}

	args := parser.ParseLine(line)
	result := h.db.Exec(conn, args)
	if result != nil {
		_ = conn.Write(result.ToBytes())
	} else {
		_ = conn.Write(unknownErrReplyBytes)
	}
}

// AfterClientClose 在连接关闭后清理
func (h *Handler) AfterClientClose(conn resp.Connection) {
	delete(h.activeConn, conn)
	h.db.AfterClientClose(conn)
}

// ActiveCount 返回发送过命令且尚未关闭的连接数
func (h *Handler) ActiveCount() int {
	return len(h.activeConn)
}

// Close 停止处理器并关闭数据库
func (h *Handler) Close() error {
	if h.closing.Get() {
		return nil
	}
	logger.Infof("handler shutting down, %d active connections", len(h.activeConn))
	h.closing.Set(true)
	h.db.Close()
	return nil
}
