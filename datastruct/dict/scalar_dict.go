package dict

// ScalarDict 是 string -> string 的开放寻址哈希表，它不是线程安全的
type ScalarDict struct {
	table openTable[string]
}

// MakeScalar 新建一个初始容量为 capacity 的 ScalarDict，capacity <= 0 时使用默认容量
func MakeScalar(capacity int) *ScalarDict {
	return &ScalarDict{
		table: makeOpenTable[string](capacity),
	}
}

// Get 返回绑定值以及该键是否存在
func (dict *ScalarDict) Get(key string) (val string, exists bool) {
	index, ok := dict.table.lookup(key)
	if !ok {
		return "", false
	}
	return dict.table.slots[index].val, true
}

// Len 返回 dict 中键的个数
func (dict *ScalarDict) Len() int {
	return dict.table.size
}

// Cap 返回槽位数组的长度
func (dict *ScalarDict) Cap() int {
	return dict.table.capacity()
}

// Put 将键值放入字典并返回新插入键值对的个数
func (dict *ScalarDict) Put(key string, val string) (result int) {
	return dict.table.put(key, val)
}

// Remove 删除键并返回已删除键值对的个数
func (dict *ScalarDict) Remove(key string) (result int) {
	if _, ok := dict.table.remove(key); ok {
		return 1
	}
	return 0
}

// Keys 按槽位顺序返回所有 key
func (dict *ScalarDict) Keys() []string {
	return dict.table.keys()
}

// ForEach 按槽位顺序遍历 dict
func (dict *ScalarDict) ForEach(consumer func(key string, val string) bool) {
	dict.table.forEach(func(key string, val *string) bool {
		return consumer(key, *val)
	})
}

// Clear 清空 dict，容量保持不变
func (dict *ScalarDict) Clear() {
	dict.table.clear()
}
