package wunderground

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"conversation_weather/internal/dateutil"
	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/models"
)

// 固定回复
const (
	MsgWhichCity     = "Which city would you like the weather for?"
	msgAmbiguousCity = "There are several places named %s. Which one did you mean?"
	msgCityNotFound  = "I'm sorry, I couldn't find weather information for %s."
	msgNoForecastDay = "I'm sorry, I don't have a forecast for that day."
	errTypeNotFound  = "querynotfound"
)

// 条件分类
const (
	condTemperature   = "temperature"
	condPrecipitation = "precipitation"
	condHumidity      = "humidity"
	condWind          = "wind"
	condForecast      = "forecast"
	condGeneral       = "conditions"
)

var conditionAliases = map[string]string{
	"temperature":   condTemperature,
	"temp":          condTemperature,
	"hot":           condTemperature,
	"cold":          condTemperature,
	"rain":          condPrecipitation,
	"snow":          condPrecipitation,
	"precipitation": condPrecipitation,
	"umbrella":      condPrecipitation,
	"humidity":      condHumidity,
	"humid":         condHumidity,
	"wind":          condWind,
	"windy":         condWind,
	"forecast":      condForecast,
}

// normalizeCondition 把对话服务给出的条件名归类，未知条件按总体天气处理
func normalizeCondition(condition string) string {
	if c, ok := conditionAliases[strings.ToLower(strings.TrimSpace(condition))]; ok {
		return c
	}
	return condGeneral
}

// buildResult 根据接口响应生成Ask或Tell
func buildResult(req models.LookupRequest, resp *apiResponse) (*models.LookupResult, error) {
	if len(resp.Response.Results) > 0 {
		return ambiguousResult(req.City, resp.Response.Results), nil
	}

	if e := resp.Response.Error; e != nil {
		if e.Type == errTypeNotFound {
			return &models.LookupResult{Tell: fmt.Sprintf(msgCityNotFound, req.City)}, nil
		}
		return nil, apperrors.NewWeatherLookupFailedError(fmt.Sprintf("%s: %s", e.Type, e.Description))
	}

	result := &models.LookupResult{}
	if resp.Location != nil {
		result.State = resp.Location.State
	}

	condition := normalizeCondition(req.Condition)

	if req.Date.Feature == models.FeatureConditions {
		obs := resp.CurrentObservation
		if obs == nil {
			return nil, apperrors.NewWeatherLookupFailedError("响应中缺少 current_observation")
		}
		if result.State == "" {
			result.State = obs.DisplayLocation.State
		}
		result.Tell = currentSentence(condition, req.Date.DisplayPhrase, obs)
		return result, nil
	}

	if resp.Forecast == nil {
		return nil, apperrors.NewWeatherLookupFailedError("响应中缺少 forecast")
	}

	if condition == condForecast {
		if lines := forecastLines(resp.Forecast, req.Date.Period); len(lines) > 0 {
			result.Lines = lines
			return result, nil
		}
		condition = condGeneral
	}

	day := findForecastDay(resp.Forecast, req.Date)
	if day == nil {
		result.Tell = msgNoForecastDay
		return result, nil
	}
	result.Tell = forecastSentence(condition, req.Date.DisplayPhrase, day)
	return result, nil
}

func ambiguousResult(city string, results []locationResult) *models.LookupResult {
	options := make([]string, 0, len(results))
	for _, r := range results {
		name := r.City
		if name == "" {
			name = r.Name
		}
		region := r.State
		if region == "" {
			region = r.Country
		}
		if region != "" {
			name += ", " + region
		}
		options = append(options, name)
	}
	return &models.LookupResult{
		Ask:     fmt.Sprintf(msgAmbiguousCity, city),
		Options: options,
	}
}

// currentSentence 实时天气播报，phrase形如 " is currently "
func currentSentence(condition, phrase string, obs *observation) string {
	var sentence string
	switch condition {
	case condTemperature:
		sentence = "It" + phrase + formatDegrees(obs.TempF) + " degrees"
		if obs.FeelsLikeF != "" {
			sentence += ", and feels like " + obs.FeelsLikeF + " degrees"
		}
	case condPrecipitation:
		precip := obs.PrecipTodayIn
		if precip == "" {
			precip = "0.00"
		}
		sentence = "There have been " + precip + " inches of precipitation so far today"
	case condHumidity:
		sentence = "The humidity" + phrase + obs.RelativeHumidity
	case condWind:
		sentence = "The wind" + phrase + windText(obs.WindMph, obs.WindDir)
	default:
		sentence = "It" + phrase + strings.ToLower(obs.Weather) + " and " + formatDegrees(obs.TempF) + " degrees"
	}

	if observed, ok := observationTime(obs); ok {
		sentence += ", as of " + dateutil.FormattedTime(observed)
	}
	return sentence + "."
}

// forecastSentence 预报播报，phrase形如 " on Friday June 12th is forecast to be "
func forecastSentence(condition, phrase string, day *simpleForecastDay) string {
	switch condition {
	case condTemperature:
		return fmt.Sprintf("The high%s%s degrees, with a low of %s degrees.", phrase, day.High.Fahrenheit, day.Low.Fahrenheit)
	case condPrecipitation:
		return fmt.Sprintf("The chance of precipitation%s%d percent.", phrase, day.Pop)
	case condHumidity:
		return fmt.Sprintf("The average humidity%s%d percent.", phrase, day.AveHumidity)
	case condWind:
		return fmt.Sprintf("The average wind%s%s.", phrase, windText(float64(day.AveWind.Mph), day.AveWind.Dir))
	default:
		return fmt.Sprintf("The weather%s%s, with a high of %s degrees.", phrase, strings.ToLower(day.Conditions), day.High.Fahrenheit)
	}
}

// forecastLines 取period及其后一个时段（白天和夜间）的文字预报
func forecastLines(fc *forecast, period int) []string {
	var lines []string
	for _, d := range fc.TxtForecast.ForecastDay {
		if d.Period == period || d.Period == period+1 {
			lines = append(lines, d.Title+": "+d.FctText)
		}
	}
	return lines
}

func findForecastDay(fc *forecast, date models.DateDescriptor) *simpleForecastDay {
	for i := range fc.SimpleForecast.ForecastDay {
		d := &fc.SimpleForecast.ForecastDay[i]
		if d.Date.Day == date.Day && d.Date.Month == date.Month && d.Date.Year == date.Year {
			return d
		}
	}
	return nil
}

func windText(mph float64, dir string) string {
	if mph <= 0 {
		return "calm"
	}
	text := formatDegrees(mph) + " miles per hour"
	if dir != "" && dir != "Variable" {
		text += " from the " + dir
	}
	return text
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// observationTime 按观测地时区还原观测时间
func observationTime(obs *observation) (time.Time, bool) {
	epoch, err := strconv.ParseInt(obs.ObservationEpoch, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	loc := time.UTC
	if offset, ok := parseOffset(obs.LocalTZOffset); ok {
		loc = time.FixedZone("", offset)
	}
	return time.Unix(epoch, 0).In(loc), true
}

// parseOffset 解析 "-0500" 形式的时区偏移，返回秒数
func parseOffset(s string) (int, bool) {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	hours, err1 := strconv.Atoi(s[1:3])
	minutes, err2 := strconv.Atoi(s[3:5])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	offset := hours*3600 + minutes*60
	if s[0] == '-' {
		offset = -offset
	}
	return offset, true
}
