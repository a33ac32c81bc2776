package models

import "fmt"

// SlotKind 槽位值的形态
type SlotKind int

const (
	SlotAbsent  SlotKind = iota // 未设置或null
	SlotScalar                  // 单个值
	SlotHistory                 // 识别器历次匹配组成的数组
)

// SlotMatch 一次识别结果，Raw保留原始对象
type SlotMatch struct {
	Value string
	Raw   map[string]interface{}
}

// SlotValue 对话上下文中的槽位值
type SlotValue struct {
	Kind    SlotKind
	Scalar  string
	History []SlotMatch
}

// ParseSlot 把context里的任意值解析成SlotValue
func ParseSlot(v interface{}) SlotValue {
	switch val := v.(type) {
	case nil:
		return SlotValue{Kind: SlotAbsent}
	case string:
		return SlotValue{Kind: SlotScalar, Scalar: val}
	case []interface{}:
		history := make([]SlotMatch, 0, len(val))
		for _, item := range val {
			history = append(history, parseMatch(item))
		}
		return SlotValue{Kind: SlotHistory, History: history}
	case []map[string]interface{}:
		history := make([]SlotMatch, 0, len(val))
		for _, item := range val {
			history = append(history, parseMatch(item))
		}
		return SlotValue{Kind: SlotHistory, History: history}
	default:
		return SlotValue{Kind: SlotScalar, Scalar: fmt.Sprint(val)}
	}
}

func parseMatch(item interface{}) SlotMatch {
	switch m := item.(type) {
	case map[string]interface{}:
		value, _ := m["value"].(string)
		return SlotMatch{Value: value, Raw: m}
	case string:
		return SlotMatch{Value: m}
	default:
		return SlotMatch{Value: fmt.Sprint(m)}
	}
}

// ScalarSlot 创建单值槽位
func ScalarSlot(v string) SlotValue {
	return SlotValue{Kind: SlotScalar, Scalar: v}
}

// HistorySlot 创建由多个匹配值组成的槽位
func HistorySlot(values ...string) SlotValue {
	history := make([]SlotMatch, 0, len(values))
	for _, v := range values {
		history = append(history, SlotMatch{Value: v, Raw: map[string]interface{}{"value": v}})
	}
	return SlotValue{Kind: SlotHistory, History: history}
}
