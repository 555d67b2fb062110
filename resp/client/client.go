package client

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/lemon-mint/frameio"
)

// ErrClosed 表示客户端已经关闭
var ErrClosed = errors.New("client closed")

// Client 是一个阻塞的行协议客户端，一次发送一行命令并读取一行响应
// 不能在多个 goroutine 中同时使用
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	// 单次请求的读写超时，0 表示不限
	timeout time.Duration
}

// MakeClient 连接到 addr
func MakeClient(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:   conn,
		reader: frameio.BufioPool.GetReader(conn),
		writer: frameio.BufioPool.GetWriter(conn),
	}, nil
}

// SetTimeout 设置单次请求的超时
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// Send 发送一行命令并返回一行响应，响应不包含结尾的换行符
func (c *Client) Send(line string) (string, error) {
	results, err := c.Pipeline([]string{line})
	if err != nil {
		return "", err
	}
	return results[0], nil
}

// Pipeline 一次性发送多行命令，再按顺序读取同样多行的响应
func (c *Client) Pipeline(lines []string) ([]string, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	}
	for _, line := range lines {
		if _, err := c.writer.WriteString(line); err != nil {
			return nil, err
		}
		if err := c.writer.WriteByte('\n'); err != nil {
			return nil, err
		}
	}
	if err := c.writer.Flush(); err != nil {
		return nil, err
	}
	results := make([]string, 0, len(lines))
	for range lines {
		resp, err := c.reader.ReadString('\n')
		if err != nil {
			return results, err
		}
		results = append(results, strings.TrimSuffix(resp, "\n"))
	}
	return results, nil
}

// Close 关闭连接
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	frameio.BufioPool.PutReader(c.reader)
	frameio.BufioPool.PutWriter(c.writer)
	c.conn = nil
	c.reader = nil
	c.writer = nil
	return err
}
