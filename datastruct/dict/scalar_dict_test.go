package dict

import (
	"hash/fnv"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFnv1aMatchesStdlib(t *testing.T) {
	for _, key := range []string{"", "a", "key", "list_42", "中文"} {
		h := fnv.New64a()
		_, _ = h.Write([]byte(key))
		assert.Equal(t, h.Sum64(), fnv1a(key), key)
	}
}

func TestPutGet(t *testing.T) {
	d := MakeScalar(0)
	assert.Equal(t, defaultCapacity, d.Cap())

	assert.Equal(t, 1, d.Put("a", "1"))
	val, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", val)

	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	d := MakeScalar(8)
	d.Put("k", "v1")
	assert.Equal(t, 0, d.Put("k", "v2"))
	assert.Equal(t, 1, d.Len())
	val, _ := d.Get("k")
	assert.Equal(t, "v2", val)
}

func TestRemove(t *testing.T) {
	d := MakeScalar(8)
	d.Put("k", "v")
	assert.Equal(t, 1, d.Remove("k"))
	assert.Equal(t, 0, d.Len())
	_, ok := d.Get("k")
	assert.False(t, ok)

	assert.Equal(t, 0, d.Remove("k"))
	assert.Equal(t, 0, d.Len())
}

func TestResizeKeepsKeys(t *testing.T) {
	d := MakeScalar(4)
	const n = 1000
	for i := 0; i < n; i++ {
		d.Put("key"+strconv.Itoa(i), strconv.Itoa(i))
		// 插入前的占用率总是低于 0.75
		assert.True(t, (d.Len()-1)*4 < d.Cap()*3)
	}
	assert.Equal(t, n, d.Len())
	assert.Greater(t, d.Cap(), n)
	for i := 0; i < n; i++ {
		val, ok := d.Get("key" + strconv.Itoa(i))
		require.True(t, ok, i)
		assert.Equal(t, strconv.Itoa(i), val)
	}
}

func TestGrowthBeforeInsert(t *testing.T) {
	d := MakeScalar(4)
	d.Put("a", "1")
	d.Put("b", "2")
	d.Put("c", "3")
	// 3/4 == 0.75，下一次插入前翻倍
	assert.Equal(t, 4, d.Cap())
	d.Put("d", "4")
	assert.Equal(t, 8, d.Cap())
}

// collidingKeys 返回 n 个在容量为 capacity 时落到同一个槽位的 key
func collidingKeys(capacity, n int) []string {
	var keys []string
	var home uint64
	for i := 0; len(keys) < n; i++ {
		key := "c" + strconv.Itoa(i)
		h := fnv1a(key) % uint64(capacity)
		if len(keys) == 0 {
			home = h
		}
		if h == home {
			keys = append(keys, key)
		}
	}
	return keys
}

func TestRemoveKeepsProbeChain(t *testing.T) {
	d := MakeScalar(16)
	keys := collidingKeys(16, 3)
	for _, k := range keys {
		d.Put(k, "v"+k)
	}
	// 删除链上第一个 key 后，后面的 key 仍然可以找到
	assert.Equal(t, 1, d.Remove(keys[0]))
	for _, k := range keys[1:] {
		val, ok := d.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, "v"+k, val)
	}
	assert.Equal(t, 1, d.table.tombstones)

	// 重新插入会复用墓碑，不会产生重复的 key
	d.Put(keys[2], "again")
	assert.Equal(t, 2, d.Len())
	d.Put(keys[0], "back")
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 0, d.table.tombstones)
	val, _ := d.Get(keys[2])
	assert.Equal(t, "again", val)
}

func TestRemoveTailOfChainClearsSlot(t *testing.T) {
	d := MakeScalar(16)
	keys := collidingKeys(16, 2)
	d.Put(keys[0], "1")
	d.Put(keys[1], "2")
	d.Remove(keys[1])
	assert.Equal(t, 0, d.table.tombstones)
}

func TestTombstonePurgeKeepsCapacity(t *testing.T) {
	d := MakeScalar(8)
	for round := 0; round < 50; round++ {
		key := "k" + strconv.Itoa(round)
		d.Put(key, "v")
		d.Put("stay", "v")
		d.Remove(key)
	}
	assert.Equal(t, 8, d.Cap())
	assert.Equal(t, 1, d.Len())
	_, ok := d.Get("stay")
	assert.True(t, ok)
}

func TestRemoveFromDenseTable(t *testing.T) {
	d := MakeScalar(4)
	d.Put("a", "1")
	d.Put("b", "2")
	d.Put("c", "3")
	assert.Equal(t, 0, d.Remove("zzz"))
	_, ok := d.Get("zzz")
	assert.False(t, ok)
}

func TestKeysAndForEach(t *testing.T) {
	d := MakeScalar(0)
	d.Put("a", "1")
	d.Put("b", "2")
	d.Put("c", "3")
	d.Remove("b")

	keys := d.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"a", "c"}, keys)

	got := map[string]string{}
	d.ForEach(func(key string, val string) bool {
		got[key] = val
		return true
	})
	assert.Equal(t, map[string]string{"a": "1", "c": "3"}, got)

	d.Clear()
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Keys())
}
