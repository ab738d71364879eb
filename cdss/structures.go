package cdss

import "context"

// StructuresRequest locates administrative structures by spatial search
// or by identifying attributes.
type StructuresRequest struct {
	AOI           AOI
	Radius        *int
	County        string
	Division      int
	GNISID        string
	WaterDistrict int
	WDIDs         []string
}

// GetStructures queries /structures.
func (c *Client) GetStructures(ctx context.Context, req StructuresRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"aoi", presence(req.AOI != nil)},
		{"radius", presencePtr(req.Radius)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"gnisId", req.GNISID},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wdid", collapseVector(req.WDIDs...)},
	})
	if err != nil {
		return nil, err
	}

	geo, err := checkAOI(req.AOI, req.Radius)
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving structure data")
	frame, err := c.paginate(ctx, "structures", []arg{
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"gnisId", req.GNISID},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wdid", collapseVector(req.WDIDs...)},
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

// WaterClassesRequest identifies water classes, the accounting codes
// that combine with a volume time series to form a diversion record.
type WaterClassesRequest struct {
	AOI           AOI
	Radius        *int
	WDIDs         []string
	County        string
	Division      int
	WaterDistrict int
	WCIdentifier  string
	GNISID        string
	StartDate     string // period-of-record start, YYYY-MM-DD; optional
	EndDate       string // period-of-record end, YYYY-MM-DD; optional
	DivRecType    string
	CIUCode       string
	Timestep      string // day, month, or year; defaults to day
}

// GetWaterClasses queries /structures/divrec/waterclasses. Unlike most
// date filters, the period-of-record bounds stay empty when not given.
func (c *Client) GetWaterClasses(ctx context.Context, req WaterClassesRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"wdid", collapseVector(req.WDIDs...)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wcIdentifier", req.WCIdentifier},
	})
	if err != nil {
		return nil, err
	}

	timestep, err := validTimestep(req.Timestep)
	if err != nil {
		return nil, err
	}
	divRecType, err := validDivRecType(req.DivRecType)
	if err != nil {
		return nil, err
	}

	geo, err := checkAOI(req.AOI, req.Radius)
	if err != nil {
		return nil, err
	}

	var porStart, porEnd string
	if req.StartDate != "" {
		porStart, err = c.encodeDate(req.StartDate, true, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
	}
	if req.EndDate != "" {
		porEnd, err = c.encodeDate(req.EndDate, false, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
	}

	c.log.Info().Msg("retrieving water classes")
	frame, err := c.paginate(ctx, "structures/divrec/waterclasses", []arg{
		{"timestep", timestep},
		{"ciuCode", req.CIUCode},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"divrectype", divRecType},
		{"min-porEnd", porEnd},
		{"min-porStart", porStart},
		{"gnisId", req.GNISID},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wcIdentifier", alignWaterClass(req.WCIdentifier, "")},
		{"wdid", collapseVector(req.WDIDs...)},
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

// DivRecTimeSeriesRequest fetches diversion/release records for one or
// more structures.
type DivRecTimeSeriesRequest struct {
	WDIDs        []string
	WCIdentifier string // diversion/release synonym or literal code; defaults to *diversion*
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
	Timescale    string // day, month, or year; defaults to day
}

// GetDivRecTimeSeries queries /structures/divrec/divrec<timescale>.
// The date filter granularity follows the timescale: full dates for
// daily records, month-year for monthly, year for yearly.
func (c *Client) GetDivRecTimeSeries(ctx context.Context, req DivRecTimeSeriesRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"wdid", collapseVector(req.WDIDs...)},
	})
	if err != nil {
		return nil, err
	}

	timescale, err := validTimestep(req.Timescale)
	if err != nil {
		return nil, err
	}

	var layout string
	switch timescale {
	case "day":
		layout = layoutMonthDayYear
	case "month":
		layout = layoutMonthYear
	case "year":
		layout = layoutYear
	}

	startDate, err := c.encodeDate(req.StartDate, true, layout)
	if err != nil {
		return nil, err
	}
	endDate, err := c.encodeDate(req.EndDate, false, layout)
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("timescale", timescale).Msg("retrieving diversion records")
	return c.paginate(ctx, "structures/divrec/divrec"+timescale, []arg{
		{"wcIdentifier", alignWaterClass(req.WCIdentifier, "*diversion*")},
		{"min-dataMeasDate", startDate},
		{"max-dataMeasDate", endDate},
		{"wdid", collapseVector(req.WDIDs...)},
	})
}

// StageVolumeRequest fetches stage/volume records for a structure.
type StageVolumeRequest struct {
	WDIDs     []string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// GetStageVolumeTimeSeries queries /structures/divrec/stagevolume.
func (c *Client) GetStageVolumeTimeSeries(ctx context.Context, req StageVolumeRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"wdid", collapseVector(req.WDIDs...)},
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

	c.log.Info().Msg("retrieving stage volume records")
	return c.paginate(ctx, "structures/divrec/stagevolume", []arg{
		{"min-dataMeasDate", startDate},
		{"max-dataMeasDate", endDate},
		{"wdid", collapseVector(req.WDIDs...)},
	})
}
