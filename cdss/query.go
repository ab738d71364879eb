package cdss

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date layouts used by the v2 endpoints. Separators are percent-encoded
// as %2F after formatting, which is how the API expects date values to
// arrive in the query string.
const (
	layoutMonthDayYear = "01-02-2006"
	layoutMonthYear    = "01-2006"
	layoutYear         = "2006"
)

// defaultStartDate is the epoch used when a start date is not given.
const defaultStartDate = "1900-01-01"

// multiSep is the delimiter the API accepts between values of a
// multi-valued parameter (an encoded ", ").
const multiSep = "%2C+"

// encodeDate converts a YYYY-MM-DD date into the endpoint's layout with
// %2F separators. Empty input defaults to 1900-01-01 for start anchors
// and to the current date (per the client clock) for end anchors.
func (c *Client) encodeDate(date string, start bool, layout string) (string, error) {
	var t time.Time
	if date == "" {
		if start {
			t, _ = time.Parse("2006-01-02", defaultStartDate)
		} else {
			t = c.now()
		}
	} else {
		var err error
		t, err = time.Parse("2006-01-02", date)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", date, err)
		}
	}
	return strings.ReplaceAll(t.Format(layout), "-", "%2F"), nil
}

// collapseVector joins identifiers into the API's delimited multi-value
// form. Whitespace inside a value is replaced with the delimiter as
// well, matching upstream behavior.
func collapseVector(values ...string) string {
	joined := strings.Join(values, multiSep)
	return strings.ReplaceAll(joined, " ", multiSep)
}

// alignWaterClass normalizes a water class identifier into the
// wildcard-matched query form. Diversion/release synonyms collapse to
// the bare word; anything else is treated as a literal identifier with
// colons and spaces encoded. Empty input yields def unchanged.
func alignWaterClass(wcID, def string) string {
	if wcID == "" {
		return def
	}
	switch strings.ToLower(wcID) {
	case "diversion", "diversions", "div", "divs", "d":
		wcID = "diversion"
	case "release", "releases", "rel", "rels", "r":
		wcID = "release"
	default:
		parts := strings.Split(wcID, " ")
		for i, p := range parts {
			parts[i] = strings.ReplaceAll(p, ":", "%3A")
		}
		wcID = strings.Join(parts, "+")
	}
	return "*" + wcID + "*"
}

// validTimestep resolves a day/month/year synonym; empty defaults to day.
func validTimestep(timestep string) (string, error) {
	if timestep == "" {
		return "day", nil
	}
	switch strings.ToLower(timestep) {
	case "day", "days", "daily", "d":
		return "day", nil
	case "month", "months", "monthly", "mon", "mons", "m":
		return "month", nil
	case "year", "years", "yearly", "annual", "annually", "yr", "y":
		return "year", nil
	}
	return "", fmt.Errorf("invalid timestep %q: expected day, month, or year", timestep)
}

// divRecTypes are the valid divrectype values. RelTolal is the upstream
// API's own spelling.
var divRecTypes = []string{"DivComment", "DivTotal", "RelComment", "RelTolal", "StageVolume", "WaterClass"}

func validDivRecType(t string) (string, error) {
	if t == "" {
		return "", nil
	}
	for _, v := range divRecTypes {
		if strings.EqualFold(t, v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid divrectype %q: expected one of %s", t, strings.Join(divRecTypes, ", "))
}

// climateParams are the measurement types served by the climate
// time series endpoints.
var climateParams = []string{
	"Evap", "FrostDate", "MaxTemp", "MeanTemp", "MinTemp", "Precip",
	"Snow", "SnowDepth", "SnowSWE", "Solar", "VP", "Wind",
}

func validClimateParam(p string) error {
	for _, v := range climateParams {
		if p == v {
			return nil
		}
	}
	return fmt.Errorf("invalid climate parameter %q: expected one of %s", p, strings.Join(climateParams, ", "))
}

// itoa renders an optional numeric parameter, with zero meaning unset.
func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// boolParam renders a bool the way the API spells it.
func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// queryString assembles the raw query for one page. Values arrive
// pre-encoded (dates, collapsed vectors), so this concatenates rather
// than url.Values-encodes; empty values still emit their key, matching
// the URLs the upstream service is tested against.
func (c *Client) queryString(params []arg, pageIndex int) string {
	var b strings.Builder
	b.WriteString("format=json&dateFormat=spaceSepToSeconds")
	for _, p := range params {
		b.WriteByte('&')
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	fmt.Fprintf(&b, "&pageSize=%d&pageIndex=%d", c.pageSize, pageIndex)
	if c.apiKey != "" {
		b.WriteString("&apiKey=")
		b.WriteString(c.apiKey)
	}
	return b.String()
}

// batchDates splits a date range into calendar-year spans for endpoints
// that time out on long ranges. Empty bounds take the same defaults as
// encodeDate.
func (c *Client) batchDates(start, end string) ([][2]string, error) {
	if start == "" {
		start = defaultStartDate
	}
	if end == "" {
		end = c.now().Format("2006-01-02")
	}
	st, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	et, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("parse end date %q: %w", end, err)
	}

	startYear, endYear := st.Year(), et.Year()
	if startYear == endYear {
		return [][2]string{{start, end}}, nil
	}

	spans := [][2]string{{start, fmt.Sprintf("%d-12-31", startYear)}}
	for y := startYear + 1; y < endYear; y++ {
		spans = append(spans, [2]string{fmt.Sprintf("%d-01-01", y), fmt.Sprintf("%d-12-31", y)})
	}
	spans = append(spans, [2]string{fmt.Sprintf("%d-01-01", endYear), end})
	return spans, nil
}
