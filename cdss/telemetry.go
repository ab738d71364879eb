package cdss

import (
	"context"
	"fmt"
)

// TelemetryStationsRequest locates telemetry stations by spatial search
// or by identifying attributes. At least one filter must be set.
type TelemetryStationsRequest struct {
	AOI           AOI
	Radius        *int // miles, 1-150; defaults to 20 when an AOI is set
	Abbrevs       []string
	County        string
	Division      int
	GNISID        string
	USGSID        string
	WaterDistrict int
	WDID          string
}

// GetTelemetryStations queries /telemetrystations/telemetrystation.
// Polygon AOIs mask the results to the polygon boundary.
func (c *Client) GetTelemetryStations(ctx context.Context, req TelemetryStationsRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"aoi", presence(req.AOI != nil)},
		{"radius", presencePtr(req.Radius)},
		{"abbrev", collapseVector(req.Abbrevs...)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"gnisId", req.GNISID},
		{"usgsId", req.USGSID},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wdid", req.WDID},
	})
	if err != nil {
		return nil, err
	}

	geo, err := checkAOI(req.AOI, req.Radius)
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving telemetry station data")
	frame, err := c.paginate(ctx, "telemetrystations/telemetrystation", []arg{
		{"abbrev", collapseVector(req.Abbrevs...)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"gnisId", req.GNISID},
		{"includeThirdParty", "true"},
		{"usgsStationId", req.USGSID},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wdid", req.WDID},
		{"latitude", geo.lat},
		{"longitude", geo.lng},
		{"radius", geo.radius},
		{"units", "miles"},
	})
	if err != nil {
		return nil, err
	}
	return maskToAOI(req.AOI, frame), nil
}

// TelemetryTimeSeriesRequest fetches raw, hourly, or daily telemetry
// readings for a station abbreviation within a date range.
type TelemetryTimeSeriesRequest struct {
	Abbrevs   []string
	Parameter string // defaults to DISCHRG
	StartDate string // YYYY-MM-DD; defaults to 1900-01-01
	EndDate   string // YYYY-MM-DD; defaults to today
	Timescale string // raw, hour, or day; defaults to day

	// IncludeThirdParty pulls data from non-DWR providers when DWR has
	// none. The API defaults this on, so the zero value follows suit.
	ExcludeThirdParty bool
}

// GetTelemetryTimeSeries queries /telemetrystations/telemetrytimeseries<timescale>.
func (c *Client) GetTelemetryTimeSeries(ctx context.Context, req TelemetryTimeSeriesRequest) (*Frame, error) {
	err := checkArgs(policyAny, []arg{
		{"abbrev", collapseVector(req.Abbrevs...)},
	})
	if err != nil {
		return nil, err
	}

	timescale := req.Timescale
	if timescale == "" {
		timescale = "day"
	}
	switch timescale {
	case "raw", "hour", "day":
	default:
		return nil, fmt.Errorf("invalid timescale %q: expected raw, hour, or day", req.Timescale)
	}

	parameter := req.Parameter
	if parameter == "" {
		parameter = "DISCHRG"
	}

	startDate, err := c.encodeDate(req.StartDate, true, layoutMonthDayYear)
	if err != nil {
		return nil, err
	}
	endDate, err := c.encodeDate(req.EndDate, false, layoutMonthDayYear)
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("timescale", timescale).Str("parameter", parameter).
		Msg("retrieving telemetry station time series")
	return c.paginate(ctx, "telemetrystations/telemetrytimeseries"+timescale, []arg{
		{"abbrev", collapseVector(req.Abbrevs...)},
		{"endDate", endDate},
		{"startDate", startDate},
		{"includeThirdParty", boolParam(!req.ExcludeThirdParty)},
		{"parameter", parameter},
	})
}
