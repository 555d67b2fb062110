package tcp

/**
 * 基于 epoll 的 tcp 服务器
 */

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jujunwang/Minidis/interface/tcp"
	"github.com/jujunwang/Minidis/lib/logger"
)

// Config 存储tcp服务器的配置
type Config struct {
	Address string `yaml:"address"`
	// 0 表示不限制连接数
	MaxConnect uint32 `yaml:"max-connect"`
	// 单次 epoll_wait 最多返回的事件数
	MaxEvents int `yaml:"max-events"`
	// 单次 read 使用的缓冲区大小
	ReadBufferSize int `yaml:"read-buffer"`
}

func (cfg *Config) withDefaults() *Config {
	c := *cfg
	if c.MaxEvents <= 0 {
		c.MaxEvents = 1024
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 4096
	}
	return &c
}

// ListenAndServeWithSignal 绑定端口和处理请求，阻塞直到收到停止信号
func ListenAndServeWithSignal(cfg *Config, handler tcp.Handler) error {
	closeChan := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		switch sig {
		case syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT:
			close(closeChan)
		}
	}()
	reactor, err := Listen(cfg, handler)
	if err != nil {
		return err
	}
	logger.Infof("bind: %s, start listening...", reactor.Addr())
	return ListenAndServe(reactor, closeChan)
}

// ListenAndServe 运行事件循环，阻塞直到 closeChan 关闭或者收到数据
func ListenAndServe(reactor *Reactor, closeChan <-chan struct{}) error {
	done := make(chan struct{})
	defer close(done)
	// listen signal
	go func() {
		select {
		case <-closeChan:
			logger.Info("shutting down...")
			reactor.Shutdown()
		case <-done:
		}
	}()
	return reactor.Serve(context.Background())
}
