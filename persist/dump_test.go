package persist

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jujunwang/Minidis/datastruct/dict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (*dict.ScalarDict, *dict.ListDict) {
	strs := dict.MakeScalar(16)
	strs.Put("name", "minidis")
	strs.Put("spaced", "a b\nc")
	strs.Put("empty", "")
	lists := dict.MakeList(16)
	lists.PushBack("fruits", "apple")
	lists.PushBack("fruits", "ba nana")
	lists.PushBack("fruits", "")
	lists.Init("drained")
	// 同一个 key 可以同时存在于两张表
	lists.PushBack("name", "x")
	return strs, lists
}

func assertSameContent(t *testing.T, strs *dict.ScalarDict, lists *dict.ListDict) {
	assert.Equal(t, 3, strs.Len())
	val, ok := strs.Get("spaced")
	assert.True(t, ok)
	assert.Equal(t, "a b\nc", val)
	val, ok = strs.Get("empty")
	assert.True(t, ok)
	assert.Equal(t, "", val)

	assert.Equal(t, 3, lists.Len())
	values, ok := lists.Values("fruits")
	assert.True(t, ok)
	assert.Equal(t, []string{"apple", "ba nana", ""}, values)
	n, ok := lists.ListLen("drained")
	assert.True(t, ok)
	assert.Equal(t, 0, n)
	values, _ = lists.Values("name")
	assert.Equal(t, []string{"x"}, values)
}

func TestDumpRoundTrip(t *testing.T) {
	strs, lists := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteDump(&buf, strs, lists))

	strs2, lists2 := dict.MakeScalar(0), dict.MakeList(0)
	require.NoError(t, ReadDump(&buf, strs2, lists2))
	assertSameContent(t, strs2, lists2)
}

func TestDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDump(&buf, dict.MakeScalar(0), dict.MakeList(0)))
	strs, lists := dict.MakeScalar(0), dict.MakeList(0)
	require.NoError(t, ReadDump(&buf, strs, lists))
	assert.Equal(t, 0, strs.Len())
	assert.Equal(t, 0, lists.Len())
}

func TestDumpBadMagic(t *testing.T) {
	strs, lists := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteDump(&buf, strs, lists))
	data := buf.Bytes()
	// 第一帧的内容紧跟在长度前缀之后，改掉魔数的最后一个字节
	idx := bytes.Index(data, dumpMagic)
	require.True(t, idx >= 0)
	data[idx+len(dumpMagic)-1] = '9'

	err := ReadDump(bytes.NewReader(data), dict.MakeScalar(0), dict.MakeList(0))
	assert.True(t, errors.Is(err, ErrBadDump))
}

func TestDumpTruncated(t *testing.T) {
	strs, lists := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteDump(&buf, strs, lists))
	data := buf.Bytes()[:buf.Len()-3]

	err := ReadDump(bytes.NewReader(data), dict.MakeScalar(0), dict.MakeList(0))
	assert.True(t, errors.Is(err, ErrBadDump))
}

func TestRecordSkipsUnknownFields(t *testing.T) {
	rec := record{kind: kindList, key: "k", values: []string{"a", "b"}}
	b := rec.marshal(nil)
	// 追加一个未知的 varint 字段
	b = append(b, 0x20, 0x07)

	var got record
	require.NoError(t, got.unmarshal(b))
	assert.Equal(t, rec, got)
}

func TestStoreAndLoadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "minidis.dump")
	strs, lists := fixture()
	require.NoError(t, StoreFile(filename, strs, lists))

	strs2, lists2 := dict.MakeScalar(0), dict.MakeList(0)
	require.NoError(t, LoadFile(filename, strs2, lists2))
	assertSameContent(t, strs2, lists2)

	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "nope"), strs2, lists2))
}
