package tcp

import (
	"context"

	"github.com/jujunwang/Minidis/interface/resp"
)

// Handler 代表tcp上的应用处理函数
// 所有方法都在事件循环所在的 goroutine 中调用
type Handler interface {
	// Handle 处理一行完整的命令，响应写入 conn
	Handle(ctx context.Context, conn resp.Connection, line []byte)
	AfterClientClose(conn resp.Connection)
	Close() error
}
