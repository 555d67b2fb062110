package connection

import (
	"bytes"
	"errors"

	"github.com/valyala/bytebufferpool"
)

// State 是连接的状态
type State int

const (
	// StateOpen 正常读写
	StateOpen State = iota
	// StateClosing 正在关闭，只尝试发送剩余的响应
	StateClosing
	// StateClosed 已关闭，缓冲区已归还
	StateClosed
)

// ErrClosed 表示连接已经关闭
var ErrClosed = errors.New("connection closed")

// Connection 代表一个与客户端的连接
// 只在事件循环所在的 goroutine 中使用，不需要加锁
type Connection struct {
	fd     int
	remote string
	// 尚未凑成完整一行的输入
	readBuf *bytebufferpool.ByteBuffer
	// 尚未发送的响应
	writeBuf *bytebufferpool.ByteBuffer
	// 是否已经注册了写就绪事件
	writeArmed bool
	state      State
}

// NewConn 包装一个已经设置为非阻塞的 socket
func NewConn(fd int, remote string) *Connection {
	return &Connection{
		fd:       fd,
		remote:   remote,
		readBuf:  bytebufferpool.Get(),
		writeBuf: bytebufferpool.Get(),
	}
}

// Fd 返回 socket 描述符
func (c *Connection) Fd() int {
	return c.fd
}

// RemoteAddr 返回远端地址
func (c *Connection) RemoteAddr() string {
	return c.remote
}

// Write 把响应追加到写缓冲区，真正的发送由事件循环完成
func (c *Connection) Write(b []byte) error {
	if c.state == StateClosed {
		return ErrClosed
	}
	if len(b) == 0 {
		return nil
	}
	_, err := c.writeBuf.Write(b)
	return err
}

// Feed 把从 socket 读到的数据追加到读缓冲区
func (c *Connection) Feed(b []byte) {
	if c.state == StateClosed {
		return
	}
	_, _ = c.readBuf.Write(b)
}

// ReadLines 把读缓冲区中每一行完整的输入（不含 \n）依次交给 fn，返回处理的行数
// 最后不完整的一行留在缓冲区里等待后续数据；line 只在 fn 执行期间有效
func (c *Connection) ReadLines(fn func(line []byte)) int {
	if c.state == StateClosed {
		return 0
	}
	buf := c.readBuf.B
	start, count := 0, 0
	for {
		i := bytes.IndexByte(buf[start:], '\n')
		if i < 0 {
			break
		}
		fn(buf[start : start+i])
		start += i + 1
		count++
	}
	if start > 0 {
		n := copy(buf, buf[start:])
		c.readBuf.B = buf[:n]
	}
	return count
}

// Buffered 返回读缓冲区中不完整的一行的长度
func (c *Connection) Buffered() int {
	if c.readBuf == nil {
		return 0
	}
	return c.readBuf.Len()
}

// Pending 返回尚未发送的响应
func (c *Connection) Pending() []byte {
	if c.writeBuf == nil {
		return nil
	}
	return c.writeBuf.B
}

// HasPending 写缓冲区非空时返回 true
func (c *Connection) HasPending() bool {
	return len(c.Pending()) > 0
}

// Consume 丢弃写缓冲区开头已经发送的 n 个字节
func (c *Connection) Consume(n int) {
	buf := c.writeBuf.B
	if n >= len(buf) {
		c.writeBuf.Reset()
		return
	}
	m := copy(buf, buf[n:])
	c.writeBuf.B = buf[:m]
}

// WriteArmed 返回是否注册了写就绪事件
func (c *Connection) WriteArmed() bool {
	return c.writeArmed
}

// SetWriteArmed 记录写就绪事件的注册状态
func (c *Connection) SetWriteArmed(armed bool) {
	c.writeArmed = armed
}

// State 返回连接状态
func (c *Connection) State() State {
	return c.state
}

// SetState 修改连接状态
func (c *Connection) SetState(state State) {
	c.state = state
}

// Close 归还缓冲区，socket 由事件循环负责关闭
func (c *Connection) Close() error {
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	bytebufferpool.Put(c.readBuf)
	bytebufferpool.Put(c.writeBuf)
	c.readBuf = nil
	c.writeBuf = nil
	return nil
}

// FakeConn 用于重放 aof 和测试，保存写入的所有响应
type FakeConn struct {
	buf bytebufferpool.ByteBuffer
}

func (c *FakeConn) Write(b []byte) error {
	_, _ = c.buf.Write(b)
	return nil
}

// RemoteAddr 返回一个固定的地址
func (c *FakeConn) RemoteAddr() string {
	return "fake"
}

// Clean 清空缓存
func (c *FakeConn) Clean() {
	c.buf.Reset()
}

// Bytes 返回写入的内容
func (c *FakeConn) Bytes() []byte {
	return c.buf.B
}
