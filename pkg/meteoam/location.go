package meteoam

import (
	"fmt"
	"strings"
)

const locationPrefix = "Previsioni Meteorologiche per "

// ParseLocation extracts the location name and region from the page header
// Header format: "Previsioni Meteorologiche per Roma (RM)"
func ParseLocation(doc *Document) (LocationInfo, error) {
	header := doc.PageHeader()
	if header == nil {
		return LocationInfo{}, fmt.Errorf("%w: page header not found", ErrLocationParse)
	}

	label := strings.ReplaceAll(header.Text(), locationPrefix, "")

	start := strings.Index(label, "(")
	if start < 0 {
		return LocationInfo{}, fmt.Errorf("%w: no region in %q", ErrLocationParse, label)
	}
	end := strings.Index(label, ")")
	if end < start {
		return LocationInfo{}, fmt.Errorf("%w: no region in %q", ErrLocationParse, label)
	}
	region := label[start+1 : end]

	return LocationInfo{
		NameWithRegion: label,
		Region:         region,
		Name:           strings.ReplaceAll(label, "("+region+")", ""),
	}, nil
}
