package services

import (
	"context"
	"fmt"

	"conversation_weather/internal/dateutil"
	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/metrics"
	"conversation_weather/internal/models"
)

// msgLookupFailed 天气服务不可用时的回复
const msgLookupFailed = "I'm sorry, I couldn't get the weather for %s right now."

// featureUnknown 日期无法分类时的指标标签
const featureUnknown = "none"

// WeatherService 根据条件、地点和日期生成天气回复
type WeatherService struct {
	classifier *dateutil.Classifier
	provider   models.WeatherProvider
	logger     logger.Logger
}

// NewWeatherService 创建天气服务
func NewWeatherService(classifier *dateutil.Classifier, provider models.WeatherProvider, log logger.Logger) *WeatherService {
	if classifier == nil {
		classifier = dateutil.NewClassifier(nil)
	}
	return &WeatherService{
		classifier: classifier,
		provider:   provider,
		logger:     logger.OrNoOp(log),
	}
}

// Resolve 先对日期分类再查询天气。
// Heading为输出的最后一行补上城市、州（服务端给出时）和冒号后的结果。
// 日期超出范围和查询失败都折叠为Tell文本，不返回错误
func (s *WeatherService) Resolve(ctx context.Context, q models.WeatherQuery) *models.WeatherReply {
	reply := &models.WeatherReply{Heading: q.Line + q.City}

	date, err := s.classifier.Classify(q.Date)
	if err != nil {
		se, ok := apperrors.As(err)
		if !ok {
			se = apperrors.NewDateOutOfRangeError(err.Error(), 0)
		}
		s.logger.Debug("日期超出范围", map[string]interface{}{"date": q.Date, "error": se.Message})
		metrics.WeatherLookups.WithLabelValues(featureUnknown, metrics.ResultDateError).Inc()
		reply.Heading += ":"
		reply.Tell = se.Message
		return reply
	}

	feature := string(date.Feature)
	s.logger.Debug("查询天气", map[string]interface{}{
		"condition": q.Condition,
		"city":      q.City,
		"state":     q.State,
		"date":      q.Date,
		"feature":   feature,
	})

	result, err := s.provider.Lookup(ctx, models.LookupRequest{
		Condition: q.Condition,
		City:      q.City,
		State:     q.State,
		Date:      *date,
	})
	if err != nil {
		s.logger.WithError(err).Warn("天气查询失败", map[string]interface{}{"city": q.City, "feature": feature})
		metrics.WeatherLookups.WithLabelValues(feature, metrics.ResultError).Inc()
		reply.Heading += ":"
		reply.Tell = fmt.Sprintf(msgLookupFailed, q.City)
		return reply
	}

	if result.State != "" {
		reply.Heading += ", " + result.State
	}
	reply.Heading += ":"

	if result.Ask != "" {
		reply.Ask = result.Ask
		reply.Options = result.Options
		metrics.WeatherLookups.WithLabelValues(feature, metrics.ResultAsk).Inc()
		return reply
	}

	reply.Tell = result.Tell
	if len(result.Lines) > 0 {
		reply.Lines = append([]string{reply.Heading}, result.Lines...)
	}
	metrics.WeatherLookups.WithLabelValues(feature, metrics.ResultTell).Inc()
	return reply
}
