package meteoam

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DaySummary aggregates the hourly forecast of one day
// Values that are unavailable or not numeric are skipped, an aggregate is nil
// when no hour carries a value.
type DaySummary struct {
	Hours              int              `json:"hours"`
	MinTemperature     *decimal.Decimal `json:"min_temperature"`
	MaxTemperature     *decimal.Decimal `json:"max_temperature"`
	MaxPrecipitation   *decimal.Decimal `json:"max_precipitation"`
	MaxWindSpeed       *decimal.Decimal `json:"max_wind_speed"`
	MaxGusts           *decimal.Decimal `json:"max_gusts"`
	PrecipitationHours int              `json:"precipitation_hours"` // hours with precipitation data
	Conditions         []string         `json:"conditions"`          // distinct, in order of appearance
}

type ForecastSummary struct {
	RequestedID   uint64       `json:"requested_id_location"`
	Location      LocationInfo `json:"location"`
	Today         DaySummary   `json:"today"`
	Tomorrow      DaySummary   `json:"tomorrow"`
	AfterTomorrow DaySummary   `json:"after_tomorrow"`
}

var reNumber = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// Summarize creates summaries of all three days of the forecast
func (r *ForecastResult) Summarize() ForecastSummary {
	return ForecastSummary{
		RequestedID:   r.RequestedID,
		Location:      r.Location,
		Today:         Summarize(r.Forecast.Today),
		Tomorrow:      Summarize(r.Forecast.Tomorrow),
		AfterTomorrow: Summarize(r.Forecast.AfterTomorrow),
	}
}

func Summarize(hours []HourlyForecast) DaySummary {
	summary := DaySummary{
		Hours:      len(hours),
		Conditions: []string{},
	}

	seen := map[string]bool{}
	for _, hour := range hours {
		if temperature, ok := firstNumber(hour.Temperature); ok {
			summary.MinTemperature = minDecimal(summary.MinTemperature, temperature)
			summary.MaxTemperature = maxDecimal(summary.MaxTemperature, temperature)
		}
		if precipitation, ok := firstNumber(hour.Precipitation); ok {
			summary.PrecipitationHours++
			summary.MaxPrecipitation = maxDecimal(summary.MaxPrecipitation, precipitation)
		}
		if speed, ok := firstNumber(hour.WindSpeed); ok {
			summary.MaxWindSpeed = maxDecimal(summary.MaxWindSpeed, speed)
		}
		// gusts text contains the nested wind speed first
		if gusts, ok := lastNumber(hour.Gusts); ok {
			summary.MaxGusts = maxDecimal(summary.MaxGusts, gusts)
		}
		if hour.Weather != nil && !seen[*hour.Weather] {
			seen[*hour.Weather] = true
			summary.Conditions = append(summary.Conditions, *hour.Weather)
		}
	}

	return summary
}

func firstNumber(s string) (decimal.Decimal, bool) {
	numbers := reNumber.FindAllString(s, -1)
	if len(numbers) == 0 {
		return decimal.Zero, false
	}

	return toDecimal(numbers[0])
}

func lastNumber(s string) (decimal.Decimal, bool) {
	numbers := reNumber.FindAllString(s, -1)
	if len(numbers) == 0 {
		return decimal.Zero, false
	}

	return toDecimal(numbers[len(numbers)-1])
}

func toDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

func minDecimal(current *decimal.Decimal, value decimal.Decimal) *decimal.Decimal {
	if current == nil || value.LessThan(*current) {
		return &value
	}

	return current
}

func maxDecimal(current *decimal.Decimal, value decimal.Decimal) *decimal.Decimal {
	if current == nil || value.GreaterThan(*current) {
		return &value
	}

	return current
}
