package persist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jujunwang/Minidis/datastruct/dict"
	jsoniter "github.com/json-iterator/go"
)

// ErrBadSnapshot 表示快照文件格式错误
var ErrBadSnapshot = errors.New("bad snapshot file")

// Emitter 接收两张表的内容，用来输出快照
// 字符串对应 Key + String，链表对应 Key + StartArray + 若干 String + EndArray
type Emitter interface {
	Key(key string)
	String(val string)
	StartArray()
	EndArray()
}

// Emit 按槽位顺序把两张表交给 e，先字符串后链表
func Emit(e Emitter, strs *dict.ScalarDict, lists *dict.ListDict) {
	strs.ForEach(func(key string, val string) bool {
		e.Key(key)
		e.String(val)
		return true
	})
	lists.ForEach(func(key string, values []string) bool {
		e.Key(key)
		e.StartArray()
		for _, v := range values {
			e.String(v)
		}
		e.EndArray()
		return true
	})
}

// jsonEmitter 把内容写成一个 JSON 对象的成员，对象的开闭由调用方负责
type jsonEmitter struct {
	stream *jsoniter.Stream
	// 对象中已经写过成员
	fieldMore bool
	inArray   bool
	// 数组中已经写过元素
	elemMore bool
}

func (e *jsonEmitter) Key(key string) {
	if e.fieldMore {
		e.stream.WriteMore()
	}
	e.stream.WriteObjectField(key)
	e.fieldMore = true
}

func (e *jsonEmitter) String(val string) {
	if e.inArray {
		if e.elemMore {
			e.stream.WriteMore()
		}
		e.elemMore = true
	}
	e.stream.WriteString(val)
}

func (e *jsonEmitter) StartArray() {
	e.stream.WriteArrayStart()
	e.inArray = true
	e.elemMore = false
}

func (e *jsonEmitter) EndArray() {
	e.stream.WriteArrayEnd()
	e.inArray = false
}

// WriteSnapshot 把两张表写成 {"key":"value","listkey":["v1","v2"]} 形式的 JSON
// 同一个 key 同时是字符串和链表时会出现两次
func WriteSnapshot(w io.Writer, strs *dict.ScalarDict, lists *dict.ListDict) error {
	stream := jsoniter.NewStream(jsoniter.ConfigDefault, w, 4096)
	stream.WriteObjectStart()
	Emit(&jsonEmitter{stream: stream}, strs, lists)
	stream.WriteObjectEnd()
	if err := stream.Flush(); err != nil {
		return err
	}
	return stream.Error
}

// ReadSnapshot 读取 WriteSnapshot 写出的 JSON，字符串值写入 strs，数组写入 lists
func ReadSnapshot(r io.Reader, strs *dict.ScalarDict, lists *dict.ListDict) error {
	iter := jsoniter.Parse(jsoniter.ConfigDefault, r, 4096)
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
		switch iter.WhatIsNext() {
		case jsoniter.StringValue:
			strs.Put(key, iter.ReadString())
		case jsoniter.ArrayValue:
			lists.Init(key)
			iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
				if iter.WhatIsNext() != jsoniter.StringValue {
					iter.ReportError("ReadSnapshot", "list element must be a string")
					return false
				}
				lists.PushBack(key, iter.ReadString())
				return true
			})
		default:
			iter.ReportError("ReadSnapshot", "value must be a string or an array")
			return false
		}
		return iter.Error == nil
	})
	if iter.Error != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, iter.Error)
	}
	return nil
}

// SaveSnapshotFile 把快照写入文件
func SaveSnapshotFile(filename string, strs *dict.ScalarDict, lists *dict.ListDict) error {
	return writeFileAtomic(filename, func(w io.Writer) error {
		return WriteSnapshot(w, strs, lists)
	})
}

// LoadSnapshotFile 从快照文件中恢复两张表
func LoadSnapshotFile(filename string, strs *dict.ScalarDict, lists *dict.ListDict) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return ReadSnapshot(file, strs, lists)
}
