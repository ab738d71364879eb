package cdss

import (
	"context"
	"fmt"
)

// ClimateStationsRequest locates climate stations by spatial search or
// by identifying attributes.
type ClimateStationsRequest struct {
	AOI           AOI
	Radius        *int
	County        string
	Division      int
	StationName   string
	SiteID        string
	WaterDistrict int
}

// GetClimateStations queries /climatedata/climatestations.
func (c *Client) GetClimateStations(ctx context.Context, req ClimateStationsRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"aoi", presence(req.AOI != nil)},
		{"radius", presencePtr(req.Radius)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"stationName", req.StationName},
		{"siteId", req.SiteID},
		{"waterDistrict", itoa(req.WaterDistrict)},
	})
	if err != nil {
		return nil, err
	}

	geo, err := checkAOI(req.AOI, req.Radius)
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving climate station data")
	frame, err := c.paginate(ctx, "climatedata/climatestations", []arg{
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"stationName", req.StationName},
		{"siteId", req.SiteID},
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

// ClimateFrostDatesRequest fetches frost date records for a station.
type ClimateFrostDatesRequest struct {
	StationNumber string
	StartDate     string // YYYY-MM-DD; only the year is sent
	EndDate       string // YYYY-MM-DD; only the year is sent
}

// GetClimateFrostDates queries /climatedata/climatestationfrostdates.
func (c *Client) GetClimateFrostDates(ctx context.Context, req ClimateFrostDatesRequest) (*Frame, error) {
	err := checkArgs(policyAny, []arg{
		{"stationNum", req.StationNumber},
	})
	if err != nil {
		return nil, err
	}

	startYear, err := c.encodeDate(req.StartDate, true, layoutYear)
	if err != nil {
		return nil, err
	}
	endYear, err := c.encodeDate(req.EndDate, false, layoutYear)
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving climate station frost dates")
	return c.paginate(ctx, "climatedata/climatestationfrostdates", []arg{
		{"min-calYear", startYear},
		{"max-calYear", endYear},
		{"stationNum", req.StationNumber},
	})
}

// ClimateTimeSeriesRequest fetches daily or monthly climate records for
// a station and measurement type.
type ClimateTimeSeriesRequest struct {
	StationNumber string
	SiteIDs       []string
	Parameter     string // one of the climate measurement types, e.g. Precip
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD
	Timescale     string // day or month; defaults to day
}

// GetClimateTimeSeries queries /climatedata/climatestationts{day,month}.
func (c *Client) GetClimateTimeSeries(ctx context.Context, req ClimateTimeSeriesRequest) (*Frame, error) {
	parameter := req.Parameter
	if parameter == "" {
		parameter = "Precip"
	}
	if err := validClimateParam(parameter); err != nil {
		return nil, err
	}

	err := checkArgs(policyAll, []arg{
		{"stationNum", req.StationNumber},
		{"siteId", collapseVector(req.SiteIDs...)},
	})
	if err != nil {
		return nil, err
	}

	timescale := req.Timescale
	if timescale == "" {
		timescale = "day"
	}

	switch timescale {
	case "day":
		startDate, err := c.encodeDate(req.StartDate, true, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
		endDate, err := c.encodeDate(req.EndDate, false, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
		c.log.Info().Str("parameter", parameter).Msg("retrieving daily climate time series")
		return c.paginate(ctx, "climatedata/climatestationtsday", []arg{
			{"min-measDate", startDate},
			{"max-measDate", endDate},
			{"stationNum", req.StationNumber},
			{"siteId", collapseVector(req.SiteIDs...)},
			{"measType", parameter},
		})
	case "month":
		startYear, err := c.encodeDate(req.StartDate, true, layoutYear)
		if err != nil {
			return nil, err
		}
		endYear, err := c.encodeDate(req.EndDate, false, layoutYear)
		if err != nil {
			return nil, err
		}
		c.log.Info().Str("parameter", parameter).Msg("retrieving monthly climate time series")
		return c.paginate(ctx, "climatedata/climatestationtsmonth", []arg{
			{"min-calYear", startYear},
			{"max-calYear", endYear},
			{"stationNum", req.StationNumber},
			{"siteId", collapseVector(req.SiteIDs...)},
			{"measType", parameter},
		})
	}
	return nil, fmt.Errorf("invalid timescale %q: expected day or month", req.Timescale)
}
