package cdss

import (
	"context"
	"strconv"
)

// CallAnalysisWDIDRequest runs a call analysis for a structure and
// priority: a time series of the percentage of each day the WDID was
// out of priority, and the downstream call in priority.
type CallAnalysisWDIDRequest struct {
	WDID      string
	AdminNo   string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD

	// Batch splits the date range into calendar-year spans, one query
	// each. The analysis endpoints time out on decade-length ranges.
	Batch bool
}

// GetCallAnalysisWDID queries /analysisservices/callanalysisbywdid.
func (c *Client) GetCallAnalysisWDID(ctx context.Context, req CallAnalysisWDIDRequest) (*Frame, error) {
	err := checkArgs(policyAny, []arg{
		{"wdid", req.WDID},
		{"adminNo", req.AdminNo},
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving call analysis by WDID")
	return c.batchedAnalysis(ctx, req.Batch, req.StartDate, req.EndDate, func(ctx context.Context, start, end string) (*Frame, error) {
		startDate, err := c.encodeDate(start, true, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
		endDate, err := c.encodeDate(end, false, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
		return c.paginate(ctx, "analysisservices/callanalysisbywdid", []arg{
			{"adminNo", req.AdminNo},
			{"endDate", endDate},
			{"startDate", startDate},
			{"wdid", req.WDID},
		})
	})
}

// CallAnalysisGNISRequest runs a call analysis for a stream reach
// identified by GNIS ID and stream mile.
type CallAnalysisGNISRequest struct {
	GNISID     string
	AdminNo    string
	StreamMile float64
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	Batch      bool
}

// GetCallAnalysisGNIS queries /analysisservices/callanalysisbygnisid.
func (c *Client) GetCallAnalysisGNIS(ctx context.Context, req CallAnalysisGNISRequest) (*Frame, error) {
	err := checkArgs(policyAny, []arg{
		{"gnisId", req.GNISID},
		{"adminNo", req.AdminNo},
	})
	if err != nil {
		return nil, err
	}

	streamMile := ""
	if req.StreamMile != 0 {
		streamMile = strconv.FormatFloat(req.StreamMile, 'f', -1, 64)
	}

	c.log.Info().Msg("retrieving call analysis by GNIS ID")
	return c.batchedAnalysis(ctx, req.Batch, req.StartDate, req.EndDate, func(ctx context.Context, start, end string) (*Frame, error) {
		startDate, err := c.encodeDate(start, true, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
		endDate, err := c.encodeDate(end, false, layoutMonthDayYear)
		if err != nil {
			return nil, err
		}
		return c.paginate(ctx, "analysisservices/callanalysisbygnisid", []arg{
			{"adminNo", req.AdminNo},
			{"endDate", endDate},
			{"gnisId", req.GNISID},
			{"startDate", startDate},
			{"streamMile", streamMile},
		})
	})
}

// batchedAnalysis runs one query per calendar-year span when batch is
// set, concatenating the frames in span order.
func (c *Client) batchedAnalysis(ctx context.Context, batch bool, start, end string, run func(ctx context.Context, start, end string) (*Frame, error)) (*Frame, error) {
	if !batch {
		return run(ctx, start, end)
	}

	spans, err := c.batchDates(start, end)
	if err != nil {
		return nil, err
	}

	out := newFrame()
	for i, span := range spans {
		c.log.Debug().Int("batch", i+1).Int("batches", len(spans)).Msg("analysis batch")
		frame, err := run(ctx, span[0], span[1])
		if err != nil {
			return nil, err
		}
		out.appendRecords(frame.Rows)
	}
	return out, nil
}

// SourceRouteFrameworkRequest lists the water source route framework,
// the stream network DWR uses for routing analyses.
type SourceRouteFrameworkRequest struct {
	Division      int
	GNISName      string
	WaterDistrict int
}

// GetSourceRouteFramework queries /analysisservices/watersourcerouteframework.
func (c *Client) GetSourceRouteFramework(ctx context.Context, req SourceRouteFrameworkRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"division", itoa(req.Division)},
		{"gnisName", req.GNISName},
		{"waterDistrict", itoa(req.WaterDistrict)},
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving water source route framework")
	return c.paginate(ctx, "analysisservices/watersourcerouteframework", []arg{
		{"division", itoa(req.Division)},
		{"gnisName", req.GNISName},
		{"waterDistrict", itoa(req.WaterDistrict)},
	})
}

// SourceRouteAnalysisRequest traces the route between an upstream and a
// downstream point on the source route framework. All four fields are
// required.
type SourceRouteAnalysisRequest struct {
	LowerGNISID     string
	LowerStreamMile float64
	UpperGNISID     string
	UpperStreamMile float64
}

// GetSourceRouteAnalysis queries /analysisservices/watersourcerouteanalysis.
func (c *Client) GetSourceRouteAnalysis(ctx context.Context, req SourceRouteAnalysisRequest) (*Frame, error) {
	ltMile := strconv.FormatFloat(req.LowerStreamMile, 'f', -1, 64)
	utMile := strconv.FormatFloat(req.UpperStreamMile, 'f', -1, 64)
	if req.LowerStreamMile == 0 {
		ltMile = ""
	}
	if req.UpperStreamMile == 0 {
		utMile = ""
	}

	err := checkArgs(policyAny, []arg{
		{"ltGnisId", req.LowerGNISID},
		{"ltStreamMile", ltMile},
		{"utGnisId", req.UpperGNISID},
		{"utStreamMile", utMile},
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Msg("retrieving water source route analysis")
	return c.paginate(ctx, "analysisservices/watersourcerouteanalysis", []arg{
		{"ltGnisId", req.LowerGNISID},
		{"ltStreamMile", ltMile},
		{"utGnisId", req.UpperGNISID},
		{"utStreamMile", utMile},
	})
}
