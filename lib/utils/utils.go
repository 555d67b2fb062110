package utils

import "strings"

// ToCmdLine 把字符串转换为 [][]byte
func ToCmdLine(cmd ...string) [][]byte {
	args := make([][]byte, len(cmd))
	for i, s := range cmd {
		args[i] = []byte(s)
	}
	return args
}

// ToCmdLine2 把命令名和参数拼成命令行
// 参数会被复制，调用方的缓冲区之后可以被复用
func ToCmdLine2(commandName string, args ...[]byte) [][]byte {
	result := make([][]byte, len(args)+1)
	result[0] = []byte(commandName)
	for i, s := range args {
		result[i+1] = append([]byte(nil), s...)
	}
	return result
}

// JoinCmdLine 用空格把命令行连接成一行文本，不包含换行符
func JoinCmdLine(cmdLine [][]byte) string {
	var sb strings.Builder
	for i, arg := range cmdLine {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(arg)
	}
	return sb.String()
}
