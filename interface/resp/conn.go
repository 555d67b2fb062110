package resp

// Connection 代表一个与客户端的连接
type Connection interface {
	// Write 把响应追加到连接的写缓冲区
	Write([]byte) error
	RemoteAddr() string
}
