package cdss

import "context"

// SurfaceWaterStationsRequest locates surface water stations by spatial
// search or by identifying attributes.
type SurfaceWaterStationsRequest struct {
	AOI           AOI
	Radius        *int
	Abbrevs       []string
	County        string
	Division      int
	StationName   string
	USGSSiteID    string
	WaterDistrict int
}

// GetSurfaceWaterStations queries /surfacewater/surfacewaterstations.
func (c *Client) GetSurfaceWaterStations(ctx context.Context, req SurfaceWaterStationsRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"aoi", presence(req.AOI != nil)},
		{"radius", presencePtr(req.Radius)},
		{"abbrev", collapseVector(req.Abbrevs...)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"stationName", req.StationName},
		{"usgsSiteId", req.USGSSiteID},
		{"waterDistrict", itoa(req.WaterDistrict)},
	})
	if err != nil {
		return nil, err
	}

	geo, err := checkAOI(req.AOI, req.Radius)
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving surface water station data")
	frame, err := c.paginate(ctx, "surfacewater/surfacewaterstations", []arg{
		{"abbrev", collapseVector(req.Abbrevs...)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"stationName", req.StationName},
		{"usgsSiteId", req.USGSSiteID},
		{"waterDistrict", itoa(req.WaterDistrict)},
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

// SurfaceWaterTimeSeriesRequest fetches daily, monthly, or water-year
// surface water records for a station.
type SurfaceWaterTimeSeriesRequest struct {
	Abbrevs       []string
	StationNumber string
	USGSSiteID    string
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD
	Timescale     string // day, month, or wateryear synonyms; defaults to day
}

// GetSurfaceWaterTimeSeries queries /surfacewater/surfacewaterts<timescale>.
// Monthly and water-year endpoints filter on whole years, so only the
// year of the given dates is sent.
func (c *Client) GetSurfaceWaterTimeSeries(ctx context.Context, req SurfaceWaterTimeSeriesRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"abbrev", collapseVector(req.Abbrevs...)},
		{"stationNum", req.StationNumber},
		{"usgsSiteId", req.USGSSiteID},
	})
	if err != nil {
		return nil, err
	}

	timescale, err := validSurfaceWaterTimescale(req.Timescale)
	if err != nil {
		return nil, err
	}

	var minParam, maxParam, layout string
	switch timescale {
	case "day":
		minParam, maxParam, layout = "min-measDate", "max-measDate", layoutMonthDayYear
	case "month":
		minParam, maxParam, layout = "min-calYear", "max-calYear", layoutYear
	case "wateryear":
		minParam, maxParam, layout = "min-waterYear", "max-waterYear", layoutYear
	}

	startDate, err := c.encodeDate(req.StartDate, true, layout)
	if err != nil {
		return nil, err
	}
	endDate, err := c.encodeDate(req.EndDate, false, layout)
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("timescale", timescale).Msg("retrieving surface water time series")
	return c.paginate(ctx, "surfacewater/surfacewaterts"+timescale, []arg{
		{"abbrev", collapseVector(req.Abbrevs...)},
		{minParam, startDate},
		{maxParam, endDate},
		{"stationNum", req.StationNumber},
		{"usgsSiteId", req.USGSSiteID},
	})
}

func validSurfaceWaterTimescale(timescale string) (string, error) {
	ts, err := validTimestep(timescale)
	if err == nil && ts == "year" {
		// surface water years are water years, not calendar years
		return "wateryear", nil
	}
	if err != nil {
		switch timescale {
		case "wateryear", "water year", "wyear", "wy":
			return "wateryear", nil
		}
		return "", err
	}
	return ts, nil
}
