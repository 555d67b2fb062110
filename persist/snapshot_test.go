package persist

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jujunwang/Minidis/datastruct/dict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	events []string
}

func (e *recordingEmitter) Key(key string)    { e.events = append(e.events, "key:"+key) }
func (e *recordingEmitter) String(val string) { e.events = append(e.events, "str:"+val) }
func (e *recordingEmitter) StartArray()       { e.events = append(e.events, "[") }
func (e *recordingEmitter) EndArray()         { e.events = append(e.events, "]") }

func TestEmit(t *testing.T) {
	strs := dict.MakeScalar(8)
	strs.Put("a", "1")
	lists := dict.MakeList(8)
	lists.PushBack("l", "x")
	lists.PushBack("l", "y")

	e := &recordingEmitter{}
	Emit(e, strs, lists)
	assert.Equal(t, []string{"key:a", "str:1", "key:l", "[", "str:x", "str:y", "]"}, e.events)
}

func TestWriteSnapshot(t *testing.T) {
	strs := dict.MakeScalar(8)
	strs.Put("a", "1")
	lists := dict.MakeList(8)
	lists.PushBack("l", "x")
	lists.PushBack("l", "y")
	lists.Init("e")

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, strs, lists))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `{"a":"1",`))
	assert.Contains(t, out, `"l":["x","y"]`)
	assert.Contains(t, out, `"e":[]`)
	assert.True(t, strings.HasSuffix(out, "}"))

	var empty bytes.Buffer
	require.NoError(t, WriteSnapshot(&empty, dict.MakeScalar(0), dict.MakeList(0)))
	assert.Equal(t, "{}", empty.String())
}

func TestSnapshotRoundTrip(t *testing.T) {
	strs, lists := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, strs, lists))

	strs2, lists2 := dict.MakeScalar(0), dict.MakeList(0)
	require.NoError(t, ReadSnapshot(&buf, strs2, lists2))
	assertSameContent(t, strs2, lists2)
}

func TestReadSnapshotRejectsBadInput(t *testing.T) {
	for _, input := range []string{
		``,
		`[]`,
		`{"a":1}`,
		`{"l":["x",2]}`,
		`{"a":"1"`,
	} {
		err := ReadSnapshot(strings.NewReader(input), dict.MakeScalar(0), dict.MakeList(0))
		assert.True(t, errors.Is(err, ErrBadSnapshot), input)
	}
}

func TestSnapshotFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "minidis.json")
	strs, lists := fixture()
	require.NoError(t, SaveSnapshotFile(filename, strs, lists))

	strs2, lists2 := dict.MakeScalar(0), dict.MakeList(0)
	require.NoError(t, LoadSnapshotFile(filename, strs2, lists2))
	assertSameContent(t, strs2, lists2)
}
