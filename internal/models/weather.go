package models

import "context"

// DataFeature 查询天气时使用的数据粒度
type DataFeature string

const (
	FeatureConditions    DataFeature = "conditions"    // 实时天气
	FeatureForecast      DataFeature = "forecast"      // 3天内预报
	FeatureForecast10Day DataFeature = "forecast10day" // 10天预报
)

// DateDescriptor 日期分类结果
type DateDescriptor struct {
	Today         bool
	Day           int
	Month         int
	Year          int
	Weekday       string
	Period        int // 文字预报中的时段序号，每天两个时段
	Feature       DataFeature
	DisplayDate   string // " today" / " on Friday June 12th"
	DisplayPhrase string // 拼接在条件名后面的播报短语
}

// LookupRequest 天气查询参数，城市和州已经过消歧
type LookupRequest struct {
	Condition string
	City      string
	State     string
	Date      DateDescriptor
}

// LookupResult 天气服务的回复：Ask（需要澄清）或 Tell（最终回答）
type LookupResult struct {
	Ask     string
	Options []string
	Tell    string
	Lines   []string // 多行回答
	State   string   // 服务端解析出的州
}

// WeatherProvider 天气服务接口
type WeatherProvider interface {
	Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error)
}

// WeatherQuery 天气补充所需的输入
type WeatherQuery struct {
	Condition string
	City      string
	State     string
	Date      string
	Line      string // 对话服务输出的最后一行，例如 "Temperature in "
}

// WeatherReply 天气补充结果
type WeatherReply struct {
	Heading string // 补充了城市、州和冒号的最后一行
	Ask     string
	Options []string
	Tell    string
	Lines   []string // 非空时整体替换输出文本
}

// NeedsClarification 是否需要向用户追问
func (r *WeatherReply) NeedsClarification() bool {
	return r.Ask != ""
}

// Text 返回要展示的回复文本
func (r *WeatherReply) Text() string {
	if r.Ask != "" {
		return r.Ask
	}
	return r.Tell
}
