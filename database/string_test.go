package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	tdb := newTestDB()
	assert.Equal(t, "-1", execLine(tdb, "GET a"))
	assert.Equal(t, "OK", execLine(tdb, "SET a 1"))
	assert.Equal(t, "1", execLine(tdb, "GET a"))

	// 覆盖不改变 key 的个数
	assert.Equal(t, "OK", execLine(tdb, "SET a 2"))
	assert.Equal(t, "2", execLine(tdb, "GET a"))
	assert.Equal(t, 1, tdb.strings.Len())

	// 多余的参数被忽略
	assert.Equal(t, "OK", execLine(tdb, "SET b 3 extra"))
	assert.Equal(t, "3", execLine(tdb, "GET b extra"))
	assert.Equal(t, []string{"set a 1", "set a 2", "set b 3"}, tdb.aof)
}

func TestDel(t *testing.T) {
	tdb := newTestDB()
	execLine(tdb, "SET a 1")
	assert.Equal(t, "1", execLine(tdb, "DEL a"))
	assert.Equal(t, "-1", execLine(tdb, "GET a"))
	assert.Equal(t, "0", execLine(tdb, "DEL a"))
	assert.Equal(t, 0, tdb.strings.Len())
	// 删除不存在的 key 不写 aof
	assert.Equal(t, []string{"set a 1", "del a"}, tdb.aof)
}

func TestKeys(t *testing.T) {
	tdb := newTestDB()
	assert.Equal(t, "", execLine(tdb, "KEYS"))
	execLine(tdb, "SET a 1")
	execLine(tdb, "LSET l x")
	assert.Equal(t, "a", execLine(tdb, "KEYS"))
}

func TestSetManyKeys(t *testing.T) {
	tdb := newTestDB()
	for i := 0; i < 1000; i++ {
		assert.Equal(t, "OK", execLine(tdb, fmt.Sprintf("SET key%d %d", i, i)))
	}
	for i := 0; i < 1000; i++ {
		assert.Equal(t, fmt.Sprint(i), execLine(tdb, fmt.Sprintf("GET key%d", i)))
	}
	assert.True(t, tdb.strings.Cap() > 8)
}

func TestStringAndListShareKey(t *testing.T) {
	tdb := newTestDB()
	execLine(tdb, "SET k v")
	execLine(tdb, "LSET k x")
	assert.Equal(t, "v", execLine(tdb, "GET k"))
	assert.Equal(t, "x", execLine(tdb, "LGET k"))
	execLine(tdb, "DEL k")
	assert.Equal(t, "x", execLine(tdb, "LGET k"))
}
