// Package wunderground Weather Underground 天气服务客户端
package wunderground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"conversation_weather/internal/cache"
	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/metrics"
	"conversation_weather/internal/models"
)

// Config 天气服务客户端配置
type Config struct {
	URL      string        // 服务地址，例如 http://api.wunderground.com
	APIKey   string        // API密钥
	Timeout  time.Duration // 请求超时
	CacheTTL time.Duration // 响应缓存有效期
}

// Client 天气服务客户端，实现models.WeatherProvider
type Client struct {
	config Config
	client *http.Client
	cache  cache.Cache
	logger logger.Logger
}

// NewClient 创建天气服务客户端，c为nil时不缓存
func NewClient(config Config, c cache.Cache, log logger.Logger) *Client {
	if c == nil {
		c = cache.NopCache{}
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		cache:  c,
		logger: logger.OrNoOp(log).With(map[string]interface{}{"service": metrics.ServiceWeather}),
	}
}

// Lookup 查询天气并生成播报文本
func (c *Client) Lookup(ctx context.Context, req models.LookupRequest) (*models.LookupResult, error) {
	if strings.TrimSpace(req.City) == "" {
		return &models.LookupResult{Ask: MsgWhichCity}, nil
	}

	query := locationQuery(req.City, req.State)
	feature := string(req.Date.Feature)

	c.logger.Debug("查询天气", map[string]interface{}{
		"condition": req.Condition,
		"city":      req.City,
		"state":     req.State,
		"feature":   feature,
	})

	key := fmt.Sprintf("wu:%s:%s", feature, query)
	body, cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("读取天气缓存失败", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if !cached {
		body, err = c.fetch(ctx, feature, query)
		if err != nil {
			return nil, err
		}
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewWeatherLookupFailedError(fmt.Sprintf("解析响应失败: %v", err))
	}

	if !cached && resp.Response.Error == nil {
		if err := c.cache.Set(ctx, key, body, c.config.CacheTTL); err != nil {
			c.logger.Warn("写入天气缓存失败", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	result, err := buildResult(req, &resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("天气查询结果", map[string]interface{}{
		"ask":    result.Ask,
		"tell":   result.Tell,
		"state":  result.State,
		"cached": cached,
	})
	return result, nil
}

// fetch 请求 {URL}/api/{key}/geolookup/{feature}/q/{query}.json
func (c *Client) fetch(ctx context.Context, feature, query string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/%s/geolookup/%s/q/%s.json",
		c.config.URL, url.PathEscape(c.config.APIKey), feature, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues(metrics.ServiceWeather).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewUpstreamTimeoutError(metrics.ServiceWeather, err)
		}
		return nil, apperrors.NewWeatherLookupFailedError(fmt.Sprintf("发送请求失败: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewWeatherLookupFailedError(fmt.Sprintf("读取响应失败: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewWeatherLookupFailedError(fmt.Sprintf("服务器返回错误: %d %s", resp.StatusCode, string(body)))
	}
	return body, nil
}

// locationQuery 生成 "州/城市" 形式的查询路径，空格替换为下划线
func locationQuery(city, state string) string {
	city = url.PathEscape(strings.ReplaceAll(strings.TrimSpace(city), " ", "_"))
	state = strings.TrimSpace(state)
	if state == "" {
		return city
	}
	return url.PathEscape(strings.ReplaceAll(state, " ", "_")) + "/" + city
}
