package cdss

import "context"

// GroundwaterWellsRequest filters groundwater wells by administrative
// area. Shared by the water level and geophysical log well endpoints.
type GroundwaterWellsRequest struct {
	County             string
	WellID             string
	Division           int
	WaterDistrict      int
	DesignatedBasin    string
	ManagementDistrict string
}

func (req GroundwaterWellsRequest) args() []arg {
	return []arg{
		{"county", req.County},
		{"wellId", req.WellID},
		{"division", itoa(req.Division)},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"designatedBasin", req.DesignatedBasin},
		{"managementDistrict", req.ManagementDistrict},
	}
}

// GetWaterLevelWells queries /groundwater/waterlevels/wells.
func (c *Client) GetWaterLevelWells(ctx context.Context, req GroundwaterWellsRequest) (*Frame, error) {
	if err := checkArgs(policyAll, req.args()); err != nil {
		return nil, err
	}
	c.log.Info().Msg("retrieving groundwater water level wells")
	return c.paginate(ctx, "groundwater/waterlevels/wells", req.args())
}

// GetGeophysicalLogWells queries /groundwater/geophysicallogs/wells.
func (c *Client) GetGeophysicalLogWells(ctx context.Context, req GroundwaterWellsRequest) (*Frame, error) {
	if err := checkArgs(policyAll, req.args()); err != nil {
		return nil, err
	}
	c.log.Info().Msg("retrieving groundwater geophysical log wells")
	return c.paginate(ctx, "groundwater/geophysicallogs/wells", req.args())
}

// WaterLevelMeasurementsRequest fetches water level measurements for
// one well within a date range.
type WaterLevelMeasurementsRequest struct {
	WellID    string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// GetWaterLevelMeasurements queries /groundwater/waterlevels/wellmeasurements.
func (c *Client) GetWaterLevelMeasurements(ctx context.Context, req WaterLevelMeasurementsRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"wellId", req.WellID},
	})
	if err != nil {
		return nil, err
	}

	startDate, err := c.encodeDate(req.StartDate, true, layoutMonthDayYear)
	if err != nil {
		return nil, err
	}
	endDate, err := c.encodeDate(req.EndDate, false, layoutMonthDayYear)
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving groundwater water level measurements")
	return c.paginate(ctx, "groundwater/waterlevels/wellmeasurements", []arg{
		{"min-measurementDate", startDate},
		{"max-measurementDate", endDate},
		{"wellId", req.WellID},
	})
}

// GetGeophysicalLogPicks queries /groundwater/geophysicallogs/geoplogpicks
// for the geophysical log picks of one well.
func (c *Client) GetGeophysicalLogPicks(ctx context.Context, wellID string) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"wellId", wellID},
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().Msg("retrieving groundwater geophysical log picks")
	return c.paginate(ctx, "groundwater/geophysicallogs/geoplogpicks", []arg{
		{"wellId", wellID},
	})
}
