package models

import (
	"bytes"
	"context"
	"encoding/json"
)

// WeatherAction 对话服务要求查询天气时设置的 output.action
const WeatherAction = "get_weather"

// ChatTurn 客户端发来的一轮对话，context由客户端每轮回传
type ChatTurn struct {
	Input   map[string]interface{} `json:"input,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// ConversationReply 对话服务的回复，增强后原样返回给客户端。
// 未建模的字段保存在Extra中，序列化时原样写回
type ConversationReply struct {
	Input    map[string]interface{}   `json:"input,omitempty"`
	Intents  []map[string]interface{} `json:"intents"`
	Entities []map[string]interface{} `json:"entities"`
	Output   Output                   `json:"output"`
	Context  map[string]interface{}   `json:"context,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Output 回复的输出部分，Extra保存对话节点设置的其他输出变量
type Output struct {
	Text         Text          `json:"text"`
	Action       string        `json:"action,omitempty"`
	NodesVisited []string      `json:"nodes_visited,omitempty"`
	LogMessages  []interface{} `json:"log_messages,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var (
	replyKeys  = []string{"input", "intents", "entities", "output", "context"}
	outputKeys = []string{"text", "action", "nodes_visited", "log_messages"}
)

// UnmarshalJSON 实现json.Unmarshaler
func (r *ConversationReply) UnmarshalJSON(data []byte) error {
	type plain ConversationReply
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := unknownFields(data, replyKeys)
	if err != nil {
		return err
	}
	*r = ConversationReply(known)
	r.Extra = extra
	return nil
}

// MarshalJSON 实现json.Marshaler。intents/entities为nil时省略，空数组原样保留
func (r ConversationReply) MarshalJSON() ([]byte, error) {
	m := withExtra(r.Extra)
	if r.Input != nil {
		m["input"] = r.Input
	}
	if r.Intents != nil {
		m["intents"] = r.Intents
	}
	if r.Entities != nil {
		m["entities"] = r.Entities
	}
	m["output"] = r.Output
	if r.Context != nil {
		m["context"] = r.Context
	}
	return json.Marshal(m)
}

// UnmarshalJSON 实现json.Unmarshaler
func (o *Output) UnmarshalJSON(data []byte) error {
	type plain Output
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := unknownFields(data, outputKeys)
	if err != nil {
		return err
	}
	*o = Output(known)
	o.Extra = extra
	return nil
}

// MarshalJSON 实现json.Marshaler，没有文本时省略text
func (o Output) MarshalJSON() ([]byte, error) {
	m := withExtra(o.Extra)
	if o.Text.Lines != nil {
		m["text"] = o.Text
	}
	if o.Action != "" {
		m["action"] = o.Action
	}
	if o.NodesVisited != nil {
		m["nodes_visited"] = o.NodesVisited
	}
	if o.LogMessages != nil {
		m["log_messages"] = o.LogMessages
	}
	return json.Marshal(m)
}

// unknownFields 返回data中不属于known的字段，没有时返回nil
func unknownFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func withExtra(extra map[string]json.RawMessage) map[string]interface{} {
	m := make(map[string]interface{}, len(extra)+5)
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// Text 输出文本，JSON中可能是字符串也可能是字符串数组
type Text struct {
	Lines  []string
	Single bool // 序列化为单个字符串
}

// NewSingleText 创建序列化为单个字符串的文本
func NewSingleText(s string) Text {
	return Text{Lines: []string{s}, Single: true}
}

// NewLines 创建多行文本
func NewLines(lines ...string) Text {
	return Text{Lines: lines}
}

// Last 返回最后一行，没有内容时返回空串
func (t Text) Last() string {
	if len(t.Lines) == 0 {
		return ""
	}
	return t.Lines[len(t.Lines)-1]
}

// MarshalJSON 实现json.Marshaler
func (t Text) MarshalJSON() ([]byte, error) {
	if t.Single && len(t.Lines) == 1 {
		return json.Marshal(t.Lines[0])
	}
	if t.Lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Lines)
}

// UnmarshalJSON 实现json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = NewSingleText(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*t = Text{Lines: lines}
	return nil
}

// ConversationService 对话服务客户端接口
type ConversationService interface {
	// Message 发送一轮输入，返回对话服务的回复
	Message(ctx context.Context, workspaceID string, input, dialogContext map[string]interface{}) (*ConversationReply, error)
}

// TurnService 处理一轮对话的服务接口
type TurnService interface {
	// ProcessTurn 调用对话服务，必要时补充天气信息
	ProcessTurn(ctx context.Context, turn *ChatTurn) (*ConversationReply, error)
}
