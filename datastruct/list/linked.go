package list

// handle 是节点在 arena 中的位置加一，0 表示空
type handle int

// LinkedList 是一个双向链表，节点存放在一个 arena 切片中，通过下标互相引用
// 零值即为一个可用的空链表
type LinkedList struct {
	nodes []node
	// 已释放的节点下标，Add/PushFront 时优先复用
	free  []handle
	first handle
	last  handle
	size  int
}

type node struct {
	val  string
	prev handle
	next handle
}

func (list *LinkedList) at(h handle) *node {
	return &list.nodes[h-1]
}

// alloc 分配一个节点，优先复用 free 中的位置
func (list *LinkedList) alloc(val string) handle {
	if n := len(list.free); n > 0 {
		h := list.free[n-1]
		list.free = list.free[:n-1]
		*list.at(h) = node{val: val}
		return h
	}
	list.nodes = append(list.nodes, node{val: val})
	return handle(len(list.nodes))
}

// release 归还节点；链表为空时整个 arena 一起重置
func (list *LinkedList) release(h handle) {
	if list.size == 0 {
		list.nodes = list.nodes[:0]
		list.free = list.free[:0]
		return
	}
	*list.at(h) = node{}
	list.free = append(list.free, h)
}

// Add 在链表尾部追加一个元素
func (list *LinkedList) Add(val string) {
	if list == nil {
		panic("list is nil")
	}
	h := list.alloc(val)
	if list.last == 0 {
		list.first = h
		list.last = h
	} else {
		list.at(h).prev = list.last
		list.at(list.last).next = h
		list.last = h
	}
	list.size++
}

// PushFront 在链表头部插入一个元素
func (list *LinkedList) PushFront(val string) {
	if list == nil {
		panic("list is nil")
	}
	h := list.alloc(val)
	if list.first == 0 {
		list.first = h
		list.last = h
	} else {
		list.at(h).next = list.first
		list.at(list.first).prev = h
		list.first = h
	}
	list.size++
}

// find 从距离 index 较近的一端开始遍历
func (list *LinkedList) find(index int) (h handle) {
	if index < list.size/2 {
		h = list.first
		for i := 0; i < index; i++ {
			h = list.at(h).next
		}
	} else {
		h = list.last
		for i := list.size - 1; i > index; i-- {
			h = list.at(h).prev
		}
	}
	return h
}

// Get 返回下标对应的元素
func (list *LinkedList) Get(index int) (val string) {
	if list == nil {
		panic("list is nil")
	}
	if index < 0 || index >= list.size {
		panic("index out of bound")
	}
	return list.at(list.find(index)).val
}

func (list *LinkedList) removeNode(h handle) string {
	n := list.at(h)
	val := n.val
	switch {
	case n.prev == 0 && n.next == 0:
		// 唯一节点
		list.first = 0
		list.last = 0
	case n.prev == 0:
		list.first = n.next
		list.at(n.next).prev = 0
	case n.next == 0:
		list.last = n.prev
		list.at(n.prev).next = 0
	default:
		list.at(n.prev).next = n.next
		list.at(n.next).prev = n.prev
	}
	list.size--
	list.release(h)
	return val
}

// Remove 删除下标对应的元素并返回它
func (list *LinkedList) Remove(index int) (val string) {
	if list == nil {
		panic("list is nil")
	}
	if index < 0 || index >= list.size {
		panic("index out of bound")
	}
	return list.removeNode(list.find(index))
}

// RemoveFirst 删除并返回第一个元素，链表为空时返回 false
func (list *LinkedList) RemoveFirst() (val string, ok bool) {
	if list == nil {
		panic("list is nil")
	}
	if list.first == 0 {
		// empty list
		return "", false
	}
	return list.removeNode(list.first), true
}

// RemoveLast 删除并返回最后一个元素，链表为空时返回 false
func (list *LinkedList) RemoveLast() (val string, ok bool) {
	if list == nil {
		panic("list is nil")
	}
	if list.last == 0 {
		// empty list
		return "", false
	}
	return list.removeNode(list.last), true
}

// Len 返回元素个数
func (list *LinkedList) Len() int {
	if list == nil {
		panic("list is nil")
	}
	return list.size
}

// ForEach 从头到尾遍历，consumer 返回 false 时停止
func (list *LinkedList) ForEach(consumer func(int, string) bool) {
	if list == nil {
		panic("list is nil")
	}
	h := list.first
	i := 0
	for h != 0 {
		n := list.at(h)
		if !consumer(i, n.val) {
			break
		}
		i++
		h = n.next
	}
}

// Values 按从头到尾的顺序返回所有元素
func (list *LinkedList) Values() []string {
	result := make([]string, 0, list.Len())
	list.ForEach(func(i int, val string) bool {
		result = append(result, val)
		return true
	})
	return result
}

// Clear 释放所有节点
func (list *LinkedList) Clear() {
	*list = LinkedList{}
}

// Make 用给定的元素创建一个链表
func Make(vals ...string) *LinkedList {
	list := LinkedList{}
	for _, v := range vals {
		list.Add(v)
	}
	return &list
}
