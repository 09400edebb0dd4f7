package meteoam

import (
	"fmt"
)

// Day anchors of the three forecast tables on a location page
const (
	AnchorToday         = "oggi"
	AnchorTomorrow      = "domani"
	AnchorAfterTomorrow = "tregiorni"
)

// HourlyForecast is one row of a forecast table
// Weather and WindDirection are nil when the page marks them as unavailable.
type HourlyForecast struct {
	Time          string  `json:"time"`
	Weather       *string `json:"weather"`
	Precipitation string  `json:"precipitation"` // verbatim, "-" when unavailable
	Temperature   string  `json:"temperature"`
	Humidity      string  `json:"humidity"`
	WindSpeed     string  `json:"wind_speed"` // km/h
	WindDirection *string `json:"wind_direction"`
	Gusts         string  `json:"gusts"` // km/h
}

type LocationInfo struct {
	NameWithRegion string `json:"name_with_region"`
	Region         string `json:"region"`
	Name           string `json:"name"`
}

type Forecast struct {
	Today         []HourlyForecast `json:"today"`
	Tomorrow      []HourlyForecast `json:"tomorrow"`
	AfterTomorrow []HourlyForecast `json:"after_tomorrow"`
}

type ForecastResult struct {
	RequestedID uint64       `json:"requested_id_location"`
	Location    LocationInfo `json:"location"`
	Forecast    Forecast     `json:"forecast"`
}

// ParsePage turns the raw content of a location page into a ForecastResult
// Any failure aborts the whole extraction, partial results are never returned.
func ParsePage(id uint64, body []byte) (*ForecastResult, error) {
	if err := CheckBlocked(id, body); err != nil {
		return nil, err
	}

	doc, err := ParseDocument(body)
	if err != nil {
		return nil, err
	}

	if err := CheckUnused(id, doc); err != nil {
		return nil, err
	}

	location, err := ParseLocation(doc)
	if err != nil {
		return nil, err
	}

	today, err := parseDay(doc, AnchorToday)
	if err != nil {
		return nil, err
	}
	tomorrow, err := parseDay(doc, AnchorTomorrow)
	if err != nil {
		return nil, err
	}
	afterTomorrow, err := parseDay(doc, AnchorAfterTomorrow)
	if err != nil {
		return nil, err
	}

	return &ForecastResult{
		RequestedID: id,
		Location:    location,
		Forecast: Forecast{
			Today:         today,
			Tomorrow:      tomorrow,
			AfterTomorrow: afterTomorrow,
		},
	}, nil
}

func parseDay(doc *Document, anchor string) ([]HourlyForecast, error) {
	table := doc.FindByID(anchor)
	if table == nil {
		return nil, fmt.Errorf("%w: #%s", ErrTableNotFound, anchor)
	}

	rows, err := ParseTable(table)
	if err != nil {
		return nil, fmt.Errorf("could not parse table #%s: %w", anchor, err)
	}

	return rows, nil
}
