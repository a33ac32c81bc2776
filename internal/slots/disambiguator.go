// Package slots 把对话服务识别出的多值城市、州槽位归并为单个值
package slots

import "conversation_weather/internal/models"

// StateResolution 州槽位的消歧结果
type StateResolution struct {
	Value string
	Raw   map[string]interface{} // 重复匹配分支保留的原始匹配对象
	Found bool
}

// ContextValue 写回对话上下文的值：未找到为nil，保留原始对象时为该对象，否则为字符串
func (r StateResolution) ContextValue() interface{} {
	if !r.Found {
		return nil
	}
	if r.Raw != nil {
		return r.Raw
	}
	return r.Value
}

// Disambiguator 槽位消歧器
type Disambiguator struct {
	resolveStateValue bool
}

// NewDisambiguator 创建消歧器。
// resolveStateValue为false时，城市与州重复匹配的分支返回原始匹配对象（旧客户端依赖此行为）
func NewDisambiguator(resolveStateValue bool) *Disambiguator {
	return &Disambiguator{resolveStateValue: resolveStateValue}
}

// ResolveCity 数组取最后一次匹配的值，单值原样返回
func (d *Disambiguator) ResolveCity(slot models.SlotValue) string {
	switch slot.Kind {
	case models.SlotHistory:
		if len(slot.History) == 0 {
			return ""
		}
		return slot.History[len(slot.History)-1].Value
	case models.SlotScalar:
		return slot.Scalar
	default:
		return ""
	}
}

// ResolveState 以城市为参照选出州。
// 存在与城市不同的值时取最后一个；否则至少两个值与城市相同时取最后一个（例如 Georgia 既是城市又是州）；
// 其余情况为空。单值原样返回。
func (d *Disambiguator) ResolveState(slot models.SlotValue, city string) StateResolution {
	switch slot.Kind {
	case models.SlotScalar:
		return StateResolution{Value: slot.Scalar, Found: true}
	case models.SlotHistory:
	default:
		return StateResolution{}
	}

	var mismatches, matches []models.SlotMatch
	for _, m := range slot.History {
		if m.Value != city {
			mismatches = append(mismatches, m)
		} else {
			matches = append(matches, m)
		}
	}

	if len(mismatches) > 0 {
		return StateResolution{Value: mismatches[len(mismatches)-1].Value, Found: true}
	}

	if len(matches) >= 2 {
		last := matches[len(matches)-1]
		res := StateResolution{Value: last.Value, Found: true}
		if !d.resolveStateValue {
			res.Raw = last.Raw
		}
		return res
	}

	return StateResolution{}
}
