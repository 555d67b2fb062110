package resp

// Reply 是服务端对一条命令的响应
type Reply interface {
	// ToBytes 返回以换行符结尾的一行文本
	ToBytes() []byte
}
