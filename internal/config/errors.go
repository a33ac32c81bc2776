package config

import "errors"

// 配置相关错误
var (
	ErrInvalidPort          = errors.New("服务器端口必须大于0")
	ErrEmptyConversationURL = errors.New("对话服务地址不能为空")
	ErrEmptyWeatherURL      = errors.New("天气服务地址不能为空")
	ErrInvalidTimeout       = errors.New("超时时间必须大于0")
	ErrInvalidCacheTTL      = errors.New("缓存有效期不能为负数")
)
