package tcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/gopkg/lang/mcache"
	"github.com/jujunwang/Minidis/interface/tcp"
	"github.com/jujunwang/Minidis/lib/logger"
	"github.com/jujunwang/Minidis/lib/sync/atomic"
	"github.com/jujunwang/Minidis/resp/connection"
	"golang.org/x/sys/unix"
)

const (
	clientEvents = unix.EPOLLIN | unix.EPOLLRDHUP | unix.EPOLLET
)

// Reactor 是单线程的 epoll 事件循环
// 监听 socket、所有客户端连接以及 handler 都只在 Serve 所在的 goroutine 中使用
type Reactor struct {
	cfg     *Config
	handler tcp.Handler
	addr    string

	lfd  int
	epfd int
	// eventfd，用于从其他 goroutine 唤醒事件循环
	wfd int

	conns  map[int]*connection.Connection
	events []unix.EpollEvent

	closing atomic.Boolean
	// 保护 wfd 的写入与关闭
	mu       sync.Mutex
	released bool
}

// Listen 创建监听 socket、epoll 实例和唤醒用的 eventfd
func Listen(cfg *Config, handler tcp.Handler) (*Reactor, error) {
	cfg = cfg.withDefaults()
	r := &Reactor{
		cfg:     cfg,
		handler: handler,
		lfd:     -1,
		epfd:    -1,
		wfd:     -1,
		conns:   make(map[int]*connection.Connection),
		events:  make([]unix.EpollEvent, cfg.MaxEvents),
	}
	if err := r.setup(); err != nil {
		r.closeFds()
		return nil, err
	}
	return r, nil
}

func (r *Reactor) setup() error {
	var err error
	if r.lfd, err = listenSocket(r.cfg.Address); err != nil {
		return err
	}
	if r.addr, err = localAddr(r.lfd); err != nil {
		return fmt.Errorf("getsockname: %w", err)
	}
	if r.epfd, err = unix.EpollCreate1(unix.EPOLL_CLOEXEC); err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	if r.wfd, err = unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC); err != nil {
		return fmt.Errorf("eventfd: %w", err)
	}
	if err = r.register(r.lfd, unix.EPOLLIN); err != nil {
		return fmt.Errorf("epoll_ctl listener: %w", err)
	}
	if err = r.register(r.wfd, unix.EPOLLIN); err != nil {
		return fmt.Errorf("epoll_ctl eventfd: %w", err)
	}
	return nil
}

// Addr 返回实际监听的地址，端口为 0 时可以得到系统分配的端口
func (r *Reactor) Addr() string {
	return r.addr
}

func (r *Reactor) register(fd int, events uint32) error {
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)})
}

// Serve 运行事件循环，直到 Shutdown 被调用或者 ctx 被取消
func (r *Reactor) Serve(ctx context.Context) error {
	scratch := mcache.Malloc(r.cfg.ReadBufferSize)
	defer mcache.Free(scratch)
	defer r.release()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.Shutdown()
		case <-done:
		}
	}()

	for !r.closing.Get() {
		n, err := unix.EpollWait(r.epfd, r.events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}
		for i := 0; i < n; i++ {
			ev := r.events[i]
			switch fd := int(ev.Fd); fd {
			case r.wfd:
				r.drainWakeup()
			case r.lfd:
				r.acceptAll()
			default:
				r.handleEvent(ctx, fd, ev.Events, scratch)
			}
		}
	}
	logger.Info("event loop stopped")
	return nil
}

// Shutdown 通知事件循环退出，可以在任意 goroutine 中调用
func (r *Reactor) Shutdown() {
	r.closing.Set(true)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	// eventfd 的计数器是主机字节序的 uint64
	one := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	if _, err := unix.Write(r.wfd, one); err != nil && err != unix.EAGAIN {
		logger.Warn("wake up event loop: ", err)
	}
}

func (r *Reactor) drainWakeup() {
	var buf [8]byte
	_, _ = unix.Read(r.wfd, buf[:])
}

// acceptAll 接受所有排队的连接，直到 EAGAIN
func (r *Reactor) acceptAll() {
	for {
		nfd, sa, err := unix.Accept4(r.lfd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err != nil {
			switch err {
			case unix.EAGAIN:
				return
			case unix.EINTR, unix.ECONNABORTED:
				continue
			default:
				logger.Warn("accept: ", err)
				return
			}
		}
		remote := sockaddrString(sa)
		if r.cfg.MaxConnect > 0 && len(r.conns) >= int(r.cfg.MaxConnect) {
			logger.Warn("too many connections, reject " + remote)
			_ = unix.Close(nfd)
			continue
		}
		if err := r.register(nfd, clientEvents); err != nil {
			logger.Warn("epoll_ctl client: ", err)
			_ = unix.Close(nfd)
			continue
		}
		r.conns[nfd] = connection.NewConn(nfd, remote)
		logger.Debug("accept link: " + remote)
	}
}

func (r *Reactor) handleEvent(ctx context.Context, fd int, events uint32, scratch []byte) {
	conn, ok := r.conns[fd]
	if !ok {
		return
	}
	if events&unix.EPOLLERR != 0 {
		r.closeConn(conn, false)
		return
	}
	if events&(unix.EPOLLIN|unix.EPOLLRDHUP|unix.EPOLLHUP) != 0 {
		if !r.readConn(ctx, conn, scratch) {
			return
		}
	}
	if events&unix.EPOLLOUT != 0 {
		r.flush(conn)
	}
}

// readConn 边缘触发模式下必须一直读到 EAGAIN
// 每一行完整的命令交给 handler，响应先进入写缓冲区，读完后尝试发送
// 返回 false 表示连接已经关闭
func (r *Reactor) readConn(ctx context.Context, conn *connection.Connection, scratch []byte) bool {
	handle := func(line []byte) {
		r.handler.Handle(ctx, conn, line)
	}
	for {
		n, err := unix.Read(conn.Fd(), scratch)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.EAGAIN {
				break
			}
			logger.Warn("read "+conn.RemoteAddr()+": ", err)
			r.closeConn(conn, true)
			return false
		}
		if n == 0 {
			// 对端关闭，已经读到的完整命令照常执行
			r.closeConn(conn, true)
			return false
		}
		conn.Feed(scratch[:n])
		conn.ReadLines(handle)
	}
	return r.flush(conn)
}

// flush 尽量发送写缓冲区，发送不完时注册写就绪事件，发完后取消注册
func (r *Reactor) flush(conn *connection.Connection) bool {
	for conn.HasPending() {
		n, err := unix.Write(conn.Fd(), conn.Pending())
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.EAGAIN {
				return r.armWrite(conn, true)
			}
			logger.Warn("write "+conn.RemoteAddr()+": ", err)
			r.closeConn(conn, false)
			return false
		}
		conn.Consume(n)
	}
	return r.armWrite(conn, false)
}

func (r *Reactor) armWrite(conn *connection.Connection, armed bool) bool {
	if conn.WriteArmed() == armed {
		return true
	}
	var events uint32 = clientEvents
	if armed {
		events |= unix.EPOLLOUT
	}
	ev := &unix.EpollEvent{Events: events, Fd: int32(conn.Fd())}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, conn.Fd(), ev); err != nil {
		logger.Warn("epoll_ctl mod: ", err)
		r.closeConn(conn, false)
		return false
	}
	conn.SetWriteArmed(armed)
	return true
}

// closeConn 关闭连接，flushPending 为 true 时先尝试发送剩余的响应，不等待
func (r *Reactor) closeConn(conn *connection.Connection, flushPending bool) {
	if conn.State() != connection.StateOpen {
		return
	}
	conn.SetState(connection.StateClosing)
	fd := conn.Fd()
	if flushPending {
		for conn.HasPending() {
			n, err := unix.Write(fd, conn.Pending())
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				break
			}
			conn.Consume(n)
		}
	}
	_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	_ = unix.Close(fd)
	delete(r.conns, fd)
	_ = conn.Close()
	r.handler.AfterClientClose(conn)
	logger.Debug("connection closed: " + conn.RemoteAddr())
}

// release 关闭所有连接、handler 以及事件循环持有的描述符
func (r *Reactor) release() {
	for _, conn := range r.conns {
		r.closeConn(conn, true)
	}
	if err := r.handler.Close(); err != nil {
		logger.Warn("close handler: ", err)
	}
	r.mu.Lock()
	r.released = true
	r.closeFds()
	r.mu.Unlock()
}

func (r *Reactor) closeFds() {
	for _, fd := range []int{r.lfd, r.wfd, r.epfd} {
		if fd >= 0 {
			_ = unix.Close(fd)
		}
	}
	r.lfd, r.wfd, r.epfd = -1, -1, -1
}
