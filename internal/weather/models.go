package weather

import (
	"time"
)

// City is a place we render a sticker for.
// Query is passed to the weather provider verbatim and identifies the city.
type City struct {
	Name           string `json:"name" validate:"required"`
	Query          string `json:"query" validate:"required"`
	Emoji          string `json:"emoji" validate:"required"`
	Output         string `json:"output" validate:"required"`
	UTCOffsetHours int    `json:"utcOffsetHours" validate:"gte=-12,lte=14"`
}

// Key returns the canonical identity of the city.
func (c City) Key() string {
	return c.Query
}

// Snapshot is the normalized current weather for a city.
// IconCode may be empty when the provider omitted it.
type Snapshot struct {
	TemperatureC  float64 `json:"temperatureC"`
	HumidityPct   int     `json:"humidityPercent"`
	WindSpeedMS   float64 `json:"windSpeedMs"`
	Description   string  `json:"description"`
	ConditionMain string  `json:"conditionMain"`
	IconCode      string  `json:"iconCode"`
}

// DefaultCondition is used when the provider does not report a condition group.
const DefaultCondition = "Default"

// LocalStamp holds the date/time strings printed on a sticker.
type LocalStamp struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Time  string `json:"time"`
}

// StampAt shifts now (taken as UTC) by a fixed offset and formats it.
func StampAt(now time.Time, offsetHours int) LocalStamp {
	local := now.UTC().Add(time.Duration(offsetHours) * time.Hour)
	return LocalStamp{
		Day:   local.Format("02"),
		Month: local.Format("Jan"),
		Time:  local.Format("15:04"),
	}
}
