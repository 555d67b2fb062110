// Package persist 负责把两张表写入文件以及从文件恢复
//
// dump 文件是 frameio 的长度前缀帧序列：第一帧是魔数，之后每帧是一条 protowire 编码的记录，
// 最后一帧是结束记录。值中可以包含任意字节，不存在分隔符歧义。
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jujunwang/Minidis/datastruct/dict"
	"github.com/lemon-mint/frameio"
	"google.golang.org/protobuf/encoding/protowire"
)

var dumpMagic = []byte("MINIDISDUMP1")

// ErrBadDump 表示 dump 文件格式错误
var ErrBadDump = errors.New("bad dump file")

const (
	fieldKind  protowire.Number = 1
	fieldKey   protowire.Number = 2
	fieldValue protowire.Number = 3
)

const (
	kindScalar uint64 = 1
	kindList   uint64 = 2
	kindEnd    uint64 = 3
)

type record struct {
	kind   uint64
	key    string
	values []string
}

func (r *record) marshal(b []byte) []byte {
	b = protowire.AppendTag(b, fieldKind, protowire.VarintType)
	b = protowire.AppendVarint(b, r.kind)
	if r.kind == kindEnd {
		return b
	}
	b = protowire.AppendTag(b, fieldKey, protowire.BytesType)
	b = protowire.AppendString(b, r.key)
	for _, v := range r.values {
		b = protowire.AppendTag(b, fieldValue, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

func (r *record) unmarshal(b []byte) error {
	*r = record{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == fieldKind && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			r.kind = v
			b = b[n:]
		case num == fieldKey && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			r.key = v
			b = b[n:]
		case num == fieldValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			r.values = append(r.values, v)
			b = b[n:]
		default:
			// 跳过未知字段
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

// WriteDump 把两张表写入 w
func WriteDump(w io.Writer, strs *dict.ScalarDict, lists *dict.ListDict) error {
	bufw := frameio.BufioPool.GetWriter(w)
	defer frameio.BufioPool.PutWriter(bufw)
	fw := frameio.NewFrameWriter(bufw)

	if err := fw.Write(dumpMagic); err != nil {
		return err
	}
	var buf []byte
	var err error
	strs.ForEach(func(key string, val string) bool {
		rec := record{kind: kindScalar, key: key, values: []string{val}}
		buf = rec.marshal(buf[:0])
		err = fw.Write(buf)
		return err == nil
	})
	if err != nil {
		return err
	}
	lists.ForEach(func(key string, values []string) bool {
		rec := record{kind: kindList, key: key, values: values}
		buf = rec.marshal(buf[:0])
		err = fw.Write(buf)
		return err == nil
	})
	if err != nil {
		return err
	}
	end := record{kind: kindEnd}
	if err := fw.Write(end.marshal(buf[:0])); err != nil {
		return err
	}
	return bufw.Flush()
}

// ReadDump 从 r 中读取记录并写入两张表
// 空链表会被恢复为只有表头的空链表
func ReadDump(r io.Reader, strs *dict.ScalarDict, lists *dict.ListDict) error {
	bufr := frameio.BufioPool.GetReader(r)
	defer frameio.BufioPool.PutReader(bufr)
	fr := frameio.NewFrameReader(bufr)

	magic, err := fr.Read()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDump, err)
	}
	if !bytes.Equal(magic, dumpMagic) {
		return fmt.Errorf("%w: unknown magic", ErrBadDump)
	}
	var rec record
	for {
		data, err := fr.Read()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadDump, err)
		}
		if err := rec.unmarshal(data); err != nil {
			return fmt.Errorf("%w: %v", ErrBadDump, err)
		}
		switch rec.kind {
		case kindEnd:
			return nil
		case kindScalar:
			if len(rec.values) != 1 {
				return fmt.Errorf("%w: scalar %q has %d values", ErrBadDump, rec.key, len(rec.values))
			}
			strs.Put(rec.key, rec.values[0])
		case kindList:
			restoreList(lists, rec.key, rec.values)
		default:
			return fmt.Errorf("%w: unknown record kind %d", ErrBadDump, rec.kind)
		}
	}
}

func restoreList(lists *dict.ListDict, key string, values []string) {
	lists.Init(key)
	for _, v := range values {
		lists.PushBack(key, v)
	}
}

// writeFileAtomic 先写临时文件再重命名，避免写到一半的文件覆盖旧文件
func writeFileAtomic(filename string, write func(w io.Writer) error) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}

// StoreFile 把两张表写入 dump 文件
func StoreFile(filename string, strs *dict.ScalarDict, lists *dict.ListDict) error {
	return writeFileAtomic(filename, func(w io.Writer) error {
		return WriteDump(w, strs, lists)
	})
}

// LoadFile 从 dump 文件中恢复两张表
func LoadFile(filename string, strs *dict.ScalarDict, lists *dict.ListDict) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return ReadDump(file, strs, lists)
}
