package aof

import (
	"io"
	"os"

	databaseface "github.com/jujunwang/Minidis/interface/database"
	"github.com/jujunwang/Minidis/lib/logger"
	"github.com/jujunwang/Minidis/lib/utils"
	"github.com/jujunwang/Minidis/resp/connection"
	"github.com/jujunwang/Minidis/resp/parser"
	"github.com/jujunwang/Minidis/resp/reply"
)

// CmdLine 代表命令
type CmdLine = [][]byte

const (
	aofQueueSize = 1 << 16
)

// AofHandler 从channel中获取数据，向AOF文件中写入数据
// 文件中每行是一条与客户端发送的格式相同的命令
type AofHandler struct {
	db          databaseface.Database
	aofChan     chan CmdLine
	aofFile     *os.File
	aofFilename string
	// 当AOF 执行完毕时，AOF goroutine会通过这个管道向主程序发送消息
	aofFinished chan struct{}
}

// NewAOFHandler 重放 filename 中的命令，然后打开文件准备追加
func NewAOFHandler(db databaseface.Database, filename string) (*AofHandler, error) {
	handler := &AofHandler{}
	handler.aofFilename = filename
	handler.db = db
	handler.LoadAof(0)
	aofFile, err := os.OpenFile(handler.aofFilename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	handler.aofFile = aofFile
	handler.aofChan = make(chan CmdLine, aofQueueSize)
	handler.aofFinished = make(chan struct{})
	go func() {
		handler.handleAof()
	}()
	return handler, nil
}

// AddAof 将命令塞到 channel 里
// cmdLine 必须是调用方不再修改的副本
func (handler *AofHandler) AddAof(cmdLine CmdLine) {
	if handler.aofChan != nil {
		handler.aofChan <- cmdLine
	}
}

// handleAof 从 channel 里读命令并且将命令写入 AOF 文件
func (handler *AofHandler) handleAof() {
	for cmdLine := range handler.aofChan {
		data := []byte(utils.JoinCmdLine(cmdLine) + "\n")
		_, err := handler.aofFile.Write(data)
		if err != nil {
			logger.Warn(err)
		}
	}
	handler.aofFinished <- struct{}{}
}

// LoadAof 读 aof 文件，maxBytes > 0 时只读取前 maxBytes 个字节
func (handler *AofHandler) LoadAof(maxBytes int) {
	file, err := os.Open(handler.aofFilename)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		logger.Warn(err)
		return
	}
	defer file.Close()

	var reader io.Reader
	if maxBytes > 0 {
		reader = io.LimitReader(file, int64(maxBytes))
	} else {
		reader = file
	}
	ch := parser.ParseStream(reader)
	fakeConn := &connection.FakeConn{}
	count := 0
	for p := range ch {
		if p.Err != nil {
			if p.Err == io.EOF {
				break
			}
			logger.Error("parse error: " + p.Err.Error())
			continue
		}
		ret := handler.db.Exec(fakeConn, p.Data)
		if reply.IsErrorReply(ret) {
			logger.Error("exec err: " + string(ret.ToBytes()))
		}
		count++
	}
	logger.Infof("aof loaded: %s, %d commands", handler.aofFilename, count)
}

// Close 优雅地停止一个持久化过程
func (handler *AofHandler) Close() {
	if handler.aofFile != nil {
		close(handler.aofChan)
		//等待AOF过程结束
		<-handler.aofFinished
		err := handler.aofFile.Close()
		if err != nil {
			logger.Warn(err)
		}
		handler.aofFile = nil
	}
}
