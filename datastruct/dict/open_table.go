package dict

const (
	defaultCapacity = 1024

	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// fnv1a 计算 key 的 64 位 FNV-1a 哈希，插入、查找、删除、扩容都使用它
func fnv1a(key string) uint64 {
	var hash uint64 = offset64
	for i := 0; i < len(key); i++ {
		hash ^= uint64(key[i])
		hash *= prime64
	}
	return hash
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	// slotDeleted 是墓碑，查找时需要越过它继续探测
	slotDeleted
)

type slot[V any] struct {
	key   string
	val   V
	state slotState
}

// openTable 是开放寻址 + 线性探测的哈希表，它不是线程安全的
type openTable[V any] struct {
	slots      []slot[V]
	size       int
	tombstones int
}

func makeOpenTable[V any](capacity int) openTable[V] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return openTable[V]{
		slots: make([]slot[V], capacity),
	}
}

func (t *openTable[V]) capacity() int {
	return len(t.slots)
}

// lookup 返回 key 所在的槽位；遇到空槽或探测满 capacity 次即认为不存在
func (t *openTable[V]) lookup(key string) (int, bool) {
	capacity := t.capacity()
	index := int(fnv1a(key) % uint64(capacity))
	for attempts := 0; attempts < capacity; attempts++ {
		s := &t.slots[index]
		switch s.state {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if s.key == key {
				return index, true
			}
		}
		index = (index + 1) % capacity
	}
	return 0, false
}

// probeInsert 返回 key 已经所在的槽位，或者可以写入它的槽位（优先复用路径上的第一个墓碑）
// 调用前必须先 reserve，保证至少存在一个非占用的槽位
func (t *openTable[V]) probeInsert(key string) (index int, found bool) {
	capacity := t.capacity()
	index = int(fnv1a(key) % uint64(capacity))
	reuse := -1
	for attempts := 0; attempts < capacity; attempts++ {
		s := &t.slots[index]
		switch s.state {
		case slotEmpty:
			if reuse >= 0 {
				return reuse, false
			}
			return index, false
		case slotDeleted:
			if reuse < 0 {
				reuse = index
			}
		case slotOccupied:
			if s.key == key {
				return index, true
			}
		}
		index = (index + 1) % capacity
	}
	return reuse, false
}

// reserve 在插入之前检查负载因子：
// 占用率达到 0.75 时容量翻倍，占用加墓碑达到 0.75 时按原容量重建以清理墓碑
func (t *openTable[V]) reserve() {
	capacity := t.capacity()
	if t.size*4 >= capacity*3 {
		t.rehash(capacity * 2)
	} else if (t.size+t.tombstones)*4 >= capacity*3 {
		t.rehash(capacity)
	}
}

// rehash 分配新的槽位数组，把所有占用的槽位迁移过去后替换旧数组
func (t *openTable[V]) rehash(capacity int) {
	old := t.slots
	t.slots = make([]slot[V], capacity)
	t.tombstones = 0
	for i := range old {
		if old[i].state != slotOccupied {
			continue
		}
		index := int(fnv1a(old[i].key) % uint64(capacity))
		for t.slots[index].state != slotEmpty {
			index = (index + 1) % capacity
		}
		t.slots[index] = old[i]
	}
}

// entry 返回 key 对应值的指针，不存在时按需创建
// 返回的指针只在下一次插入或扩容之前有效
func (t *openTable[V]) entry(key string, create bool) (val *V, created bool) {
	if index, ok := t.lookup(key); ok {
		return &t.slots[index].val, false
	}
	if !create {
		return nil, false
	}
	t.reserve()
	index, _ := t.probeInsert(key)
	s := &t.slots[index]
	if s.state == slotDeleted {
		t.tombstones--
	}
	var zero V
	*s = slot[V]{key: key, val: zero, state: slotOccupied}
	t.size++
	return &s.val, true
}

// put 写入 key，新插入时返回 1，覆盖时返回 0
func (t *openTable[V]) put(key string, val V) int {
	t.reserve()
	index, found := t.probeInsert(key)
	s := &t.slots[index]
	if found {
		s.val = val
		return 0
	}
	if s.state == slotDeleted {
		t.tombstones--
	}
	*s = slot[V]{key: key, val: val, state: slotOccupied}
	t.size++
	return 1
}

// remove 删除 key 并返回被删除的值
func (t *openTable[V]) remove(key string) (val V, ok bool) {
	index, ok := t.lookup(key)
	if !ok {
		return val, false
	}
	val = t.slots[index].val
	next := (index + 1) % t.capacity()
	if t.slots[next].state == slotEmpty {
		// 后继为空槽说明没有探测链经过这里，可以直接置空
		t.slots[index] = slot[V]{}
	} else {
		t.slots[index] = slot[V]{state: slotDeleted}
		t.tombstones++
	}
	t.size--
	return val, true
}

// forEach 按数组顺序遍历所有占用的槽位
func (t *openTable[V]) forEach(consumer func(key string, val *V) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.state != slotOccupied {
			continue
		}
		if !consumer(s.key, &s.val) {
			return
		}
	}
}

func (t *openTable[V]) keys() []string {
	result := make([]string, 0, t.size)
	t.forEach(func(key string, val *V) bool {
		result = append(result, key)
		return true
	})
	return result
}

func (t *openTable[V]) clear() {
	for i := range t.slots {
		t.slots[i] = slot[V]{}
	}
	t.size = 0
	t.tombstones = 0
}
