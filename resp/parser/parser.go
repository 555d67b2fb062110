package parser

import (
	"bufio"
	"bytes"
	"io"
)

// Payload 存储解析出的一条命令或者错误
type Payload struct {
	Data [][]byte
	Err  error
}

// ParseLine 按空白字符切分一行命令，行尾的 \r 也被当作空白
// 返回的切片引用 line 的内存
func ParseLine(line []byte) [][]byte {
	return bytes.Fields(line)
}

// ParseStream 从 reader 中逐行读取命令，解析结果通过 channel 返回
// 空行会被跳过，流结束时发送 io.EOF 后关闭 channel
func ParseStream(reader io.Reader) <-chan *Payload {
	ch := make(chan *Payload)
	go parse0(reader, ch)
	return ch
}

func parse0(reader io.Reader, ch chan<- *Payload) {
	defer close(ch)
	bufReader := bufio.NewReader(reader)
	for {
		line, err := bufReader.ReadBytes('\n')
		if len(line) > 0 {
			if args := ParseLine(line); len(args) > 0 {
				ch <- &Payload{Data: args}
			}
		}
		if err != nil {
			if err == io.EOF {
				ch <- &Payload{Err: io.EOF}
			} else {
				ch <- &Payload{Err: err}
			}
			return
		}
	}
}
