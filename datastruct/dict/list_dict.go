package dict

import (
	"errors"
	"github.com/jujunwang/Minidis/datastruct/list"
)

var (
	// ErrNoSuchKey 表示 key 没有对应的链表
	ErrNoSuchKey = errors.New("no such key")
	// ErrIndexOutOfRange 表示下标超出链表长度
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ListDict 是 string -> 链表 的开放寻址哈希表
// 每个占用的槽位就是链表头，持有首尾节点和长度；链表被弹空后槽位仍然保留，直到 Remove
type ListDict struct {
	table openTable[list.LinkedList]
}

// MakeList 新建一个初始容量为 capacity 的 ListDict
func MakeList(capacity int) *ListDict {
	return &ListDict{
		table: makeOpenTable[list.LinkedList](capacity),
	}
}

func (dict *ListDict) get(key string) *list.LinkedList {
	l, _ := dict.table.entry(key, false)
	return l
}

// Len 返回链表（包括空链表）的个数
func (dict *ListDict) Len() int {
	return dict.table.size
}

// Cap 返回槽位数组的长度
func (dict *ListDict) Cap() int {
	return dict.table.capacity()
}

// Init 为 key 创建一个空链表，key 已存在时不做任何事
func (dict *ListDict) Init(key string) {
	dict.table.entry(key, true)
}

// PushBack 把 val 追加到 key 对应链表的尾部，链表不存在时创建
func (dict *ListDict) PushBack(key string, val string) {
	l, _ := dict.table.entry(key, true)
	l.Add(val)
}

// PushFront 把 val 插入到 key 对应链表的头部，链表不存在时创建
func (dict *ListDict) PushFront(key string, val string) {
	l, _ := dict.table.entry(key, true)
	l.PushFront(val)
}

// PopBack 弹出链表尾部的元素，key 不存在或链表为空时返回 false
func (dict *ListDict) PopBack(key string) (string, bool) {
	l := dict.get(key)
	if l == nil {
		return "", false
	}
	return l.RemoveLast()
}

// PopFront 弹出链表头部的元素，key 不存在或链表为空时返回 false
func (dict *ListDict) PopFront(key string) (string, bool) {
	l := dict.get(key)
	if l == nil {
		return "", false
	}
	return l.RemoveFirst()
}

// Values 从头到尾返回链表的所有元素，key 不存在时返回 false
func (dict *ListDict) Values(key string) ([]string, bool) {
	l := dict.get(key)
	if l == nil {
		return nil, false
	}
	return l.Values(), true
}

// ListLen 返回链表的长度
func (dict *ListDict) ListLen(key string) (int, bool) {
	l := dict.get(key)
	if l == nil {
		return 0, false
	}
	return l.Len(), true
}

func (dict *ListDict) checkIndex(key string, index int) (*list.LinkedList, error) {
	l := dict.get(key)
	if l == nil {
		return nil, ErrNoSuchKey
	}
	if index < 0 || index >= l.Len() {
		return nil, ErrIndexOutOfRange
	}
	return l, nil
}

// Index 返回链表中下标为 index 的元素，从较近的一端开始查找
func (dict *ListDict) Index(key string, index int) (string, error) {
	l, err := dict.checkIndex(key, index)
	if err != nil {
		return "", err
	}
	return l.Get(index), nil
}

// RemoveAt 删除链表中下标为 index 的元素
func (dict *ListDict) RemoveAt(key string, index int) error {
	l, err := dict.checkIndex(key, index)
	if err != nil {
		return err
	}
	l.Remove(index)
	return nil
}

// Remove 删除整个链表并释放槽位
func (dict *ListDict) Remove(key string) bool {
	_, ok := dict.table.remove(key)
	return ok
}

// Keys 按槽位顺序返回所有 key
func (dict *ListDict) Keys() []string {
	return dict.table.keys()
}

// ForEach 按槽位顺序遍历每个链表
func (dict *ListDict) ForEach(consumer func(key string, values []string) bool) {
	dict.table.forEach(func(key string, l *list.LinkedList) bool {
		return consumer(key, l.Values())
	})
}

// Clear 删除所有链表，容量保持不变
func (dict *ListDict) Clear() {
	dict.table.clear()
}
