package meteoam

import (
	"fmt"
	"strings"
)

const (
	unavailable      = "-"
	windClassPrefix  = "vento"
	variableWindName = "Variabile"
	dataCellsInRow   = 5
)

// ParseTable extracts one HourlyForecast per body row of the forecast table
// Rows keep the table order and none is dropped.
func ParseTable(table *Node) ([]HourlyForecast, error) {
	body := table.FindFirst("tbody")
	if body == nil {
		return nil, fmt.Errorf("%w: table has no body", ErrMalformedRow)
	}

	rows := body.FindAll("tr")
	results := make([]HourlyForecast, 0, len(rows))
	for i, row := range rows {
		forecast, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		results = append(results, forecast)
	}

	return results, nil
}

func parseRow(row *Node) (HourlyForecast, error) {
	header := row.FindFirst("th")
	if header == nil {
		return HourlyForecast{}, malformed("missing time header")
	}

	data := row.FindAll("td")
	if len(data) < dataCellsInRow {
		return HourlyForecast{}, malformed("expected %d data cells, got %d", dataCellsInRow, len(data))
	}

	img := data[0].FindFirst("img")
	if img == nil {
		return HourlyForecast{}, malformed("missing weather image")
	}
	title, ok := img.Attr("title")
	if !ok {
		return HourlyForecast{}, malformed("missing weather title")
	}

	// wind cell: <span class="ventoNE ..."><span>speed</span>gusts</span>
	wind := data[4].FindFirst("span")
	if wind == nil {
		return HourlyForecast{}, malformed("missing wind")
	}
	speed := wind.FindFirst("span")
	if speed == nil {
		return HourlyForecast{}, malformed("missing wind speed")
	}
	classes := wind.Classes()
	if len(classes) == 0 {
		return HourlyForecast{}, malformed("missing wind direction class")
	}
	direction := strings.ReplaceAll(classes[0], windClassPrefix, "")

	return HourlyForecast{
		Time:          header.Text(),
		Weather:       optional(title, unavailable),
		Precipitation: data[1].Text(),
		Temperature:   data[2].Text(),
		Humidity:      data[3].Text(),
		WindSpeed:     speed.Text(),
		WindDirection: optional(direction, variableWindName),
		Gusts:         wind.Text(),
	}, nil
}

// optional returns nil when the value equals the sentinel
func optional(value, sentinel string) *string {
	if value == sentinel {
		return nil
	}

	return &value
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRow, fmt.Sprintf(format, args...))
}
