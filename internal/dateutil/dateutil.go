// Package dateutil 日期分类，以及适合语音播报的日期、时间格式化
package dateutil

import (
	"fmt"
	"strings"
	"time"

	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/models"
)

// CurrentToken 表示查询实时天气的日期值
const CurrentToken = "current"

// 超出支持范围时的回复
const (
	MsgTooFarAhead = "I'm sorry, I cannot see more than 10 days into the future."
	MsgHistorical  = "I'm sorry, I cannot yet look at historical conditions."
)

var daysOfMonth = [...]string{
	"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th", "10th",
	"11th", "12th", "13th", "14th", "15th", "16th", "17th", "18th", "19th", "20th",
	"21st", "22nd", "23rd", "24th", "25th", "26th", "27th", "28th", "29th", "30th",
	"31st",
}

// 不带时区的格式按当前时区解析
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
}

// Classifier 把日期值映射为DateDescriptor
type Classifier struct {
	now func() time.Time
}

// NewClassifier 创建分类器，now为nil时使用time.Now
func NewClassifier(now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now}
}

// Classify 对日期值分类。超出范围时返回DATE_OUT_OF_RANGE错误，错误消息可直接回复给用户
func (c *Classifier) Classify(token string) (*models.DateDescriptor, error) {
	if token == CurrentToken {
		return &models.DateDescriptor{
			Today:         true,
			Feature:       models.FeatureConditions,
			DisplayPhrase: " is currently ",
		}, nil
	}

	today := c.now()
	target, ok := parseDate(token, today.Location())
	if !ok {
		target = today
		if strings.ToLower(token) == "tomorrow" {
			target = target.AddDate(0, 0, 1)
		}
	}

	// 目标日期取UTC日，当前日期取本地日，跨月时结果不正确，保持与旧客户端一致
	diff := target.UTC().Day() - today.Day()

	var feature models.DataFeature
	switch {
	case diff > 9:
		return nil, apperrors.NewDateOutOfRangeError(MsgTooFarAhead, diff)
	case diff > 3:
		feature = models.FeatureForecast10Day
	case diff >= 0:
		feature = models.FeatureForecast
	default:
		return nil, apperrors.NewDateOutOfRangeError(MsgHistorical, diff)
	}

	displayDate := " today"
	if diff != 0 {
		displayDate = " on " + FormattedDate(target, today)
	}

	utc := target.UTC()
	return &models.DateDescriptor{
		Today:         diff == 0,
		Day:           utc.Day(),
		Month:         int(utc.Month()),
		Year:          utc.Year(),
		Weekday:       Weekday(target),
		Period:        2 * diff,
		Feature:       feature,
		DisplayDate:   displayDate,
		DisplayPhrase: displayDate + " is forecast to be ",
	}, nil
}

// parseDate 解析日期；纯日期和带时区的时间按UTC，其余按loc
func parseDate(token string, loc *time.Location) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", token); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, token); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, token, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Weekday 返回UTC下的星期名称
func Weekday(date time.Time) string {
	return date.UTC().Weekday().String()
}

// FormattedDate 返回不含时间的播报日期，与now同年时省略年份。
// 例如 "Friday June 12th"、"Friday 6/5/2016"
func FormattedDate(date, now time.Time) string {
	utc := date.UTC()
	if now.UTC().Year() == utc.Year() {
		return fmt.Sprintf("%s %s %s", utc.Weekday(), utc.Month(), daysOfMonth[utc.Day()-1])
	}
	return fmt.Sprintf("%s %d/%d/%d", utc.Weekday(), int(utc.Month()), utc.Day(), utc.Year())
}

// FormattedTime 返回按时段描述的时间，例如 "12:35 in the afternoon"
func FormattedTime(t time.Time) string {
	hours := t.Hour()

	var periodOfDay string
	switch {
	case hours < 12:
		periodOfDay = " in the morning"
	case hours < 17:
		periodOfDay = " in the afternoon"
	case hours < 20:
		periodOfDay = " in the evening"
	default:
		periodOfDay = " at night"
	}

	return fmt.Sprintf("%d:%02d%s", clockHour(hours), t.Minute(), periodOfDay)
}

// FormattedTimeAmPm 返回12小时制时间，例如 "12:35 pm"
func FormattedTimeAmPm(t time.Time) string {
	ampm := "am"
	if t.Hour() >= 12 {
		ampm = "pm"
	}
	return fmt.Sprintf("%d:%02d %s", clockHour(t.Hour()), t.Minute(), ampm)
}

// clockHour 24小时制转12小时制，0点显示为12
func clockHour(hours int) int {
	hours %= 12
	if hours == 0 {
		return 12
	}
	return hours
}
