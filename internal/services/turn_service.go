package services

import (
	"context"
	"fmt"

	"conversation_weather/internal/config"
	"conversation_weather/internal/dateutil"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/metrics"
	"conversation_weather/internal/models"
	"conversation_weather/internal/slots"
)

// MsgWorkspaceNotConfigured 未配置WORKSPACE_ID时返回给客户端的提示
const MsgWorkspaceNotConfigured = "The app has not been configured with a <b>WORKSPACE_ID</b> environment variable. Please refer to the " +
	"<a href=\"https://github.com/watson-developer-cloud/conversation-simple\">README</a> documentation on how to set this variable. <br>" +
	"Once a workspace has been defined the intents may be imported from " +
	"<a href=\"https://github.com/watson-developer-cloud/conversation-simple/blob/master/training/car_workspace.json\">here</a> in order to get a working application."

// 对话上下文中使用的键
const (
	ctxCity       = "city"
	ctxState      = "state"
	ctxCondition  = "condition"
	ctxDate       = "date"
	ctxAskedState = "asked_state"
)

// ConversationTurnService 一轮对话的处理流程：调用对话服务，遇到get_weather时补充天气
type ConversationTurnService struct {
	cfg          config.ConversationConfig
	conversation models.ConversationService
	weather      *WeatherService
	slots        *slots.Disambiguator
	logger       logger.Logger
}

// NewTurnService 创建对话处理服务
func NewTurnService(cfg config.ConversationConfig, conversation models.ConversationService, weather *WeatherService, disambiguator *slots.Disambiguator, log logger.Logger) *ConversationTurnService {
	if disambiguator == nil {
		disambiguator = slots.NewDisambiguator(false)
	}
	return &ConversationTurnService{
		cfg:          cfg,
		conversation: conversation,
		weather:      weather,
		slots:        disambiguator,
		logger:       logger.OrNoOp(log),
	}
}

// ProcessTurn 实现models.TurnService
func (s *ConversationTurnService) ProcessTurn(ctx context.Context, turn *models.ChatTurn) (*models.ConversationReply, error) {
	if !s.cfg.WorkspaceConfigured() {
		s.logger.Warn("未配置WORKSPACE_ID", nil)
		metrics.ChatTurns.WithLabelValues(metrics.OutcomeUnconfigured).Inc()
		return &models.ConversationReply{
			Output: models.Output{Text: models.NewSingleText(MsgWorkspaceNotConfigured)},
		}, nil
	}

	if turn == nil {
		turn = &models.ChatTurn{}
	}
	dialogContext := turn.Context
	if dialogContext == nil {
		dialogContext = map[string]interface{}{}
	}

	reply, err := s.conversation.Message(ctx, s.cfg.WorkspaceID, turn.Input, dialogContext)
	if err != nil {
		s.logger.WithError(err).Error("调用对话服务失败", nil)
		metrics.ChatTurns.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	if reply.Context == nil {
		reply.Context = map[string]interface{}{}
	}

	if reply.Output.Action != models.WeatherAction {
		// 仍在对话流程中，只展示最后一行；没有文本时省略text
		if len(reply.Output.Text.Lines) == 0 {
			reply.Output.Text = models.Text{}
		} else {
			reply.Output.Text = models.NewSingleText(reply.Output.Text.Last())
		}
		metrics.ChatTurns.WithLabelValues(metrics.OutcomeDialog).Inc()
		return reply, nil
	}

	s.enrichWeather(ctx, reply)
	metrics.ChatTurns.WithLabelValues(metrics.OutcomeWeather).Inc()
	return reply, nil
}

// enrichWeather 归并城市、州槽位，查询天气并改写输出文本
func (s *ConversationTurnService) enrichWeather(ctx context.Context, reply *models.ConversationReply) {
	citySlot := models.ParseSlot(reply.Context[ctxCity])
	city := s.slots.ResolveCity(citySlot)
	if citySlot.Kind == models.SlotHistory {
		reply.Context[ctxCity] = city
	}

	stateSlot := models.ParseSlot(reply.Context[ctxState])
	state := s.slots.ResolveState(stateSlot, city)
	if stateSlot.Kind == models.SlotHistory {
		reply.Context[ctxState] = state.ContextValue()
	}

	query := models.WeatherQuery{
		Condition: contextString(reply.Context, ctxCondition),
		City:      city,
		State:     state.Value,
		Date:      contextString(reply.Context, ctxDate),
		Line:      reply.Output.Text.Last(),
	}
	if query.Date == "" {
		query.Date = dateutil.CurrentToken
	}

	weather := s.weather.Resolve(ctx, query)
	if weather.NeedsClarification() {
		reply.Context[ctxAskedState] = true
	}

	if len(weather.Lines) > 0 {
		reply.Output.Text = models.NewLines(weather.Lines...)
	} else {
		reply.Output.Text = models.NewLines(weather.Heading, weather.Text())
	}

	s.logger.Debug("天气补充完成", map[string]interface{}{
		"city":  city,
		"state": state.Value,
		"text":  reply.Output.Text.Lines,
	})
}

func contextString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
