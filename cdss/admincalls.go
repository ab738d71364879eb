package cdss

import "context"

// AdminCallsRequest locates active or historical administrative calls
// by division, call location structure, or call number.
type AdminCallsRequest struct {
	Division      int
	LocationWDIDs []string
	CallNumber    int
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD

	// Historical selects the historical endpoint; the default is the
	// active calls endpoint.
	Historical bool
}

// GetAdminCalls queries /administrativecalls/{active,historical}.
func (c *Client) GetAdminCalls(ctx context.Context, req AdminCallsRequest) (*Frame, error) {
	err := checkArgs(policyAll, []arg{
		{"division", itoa(req.Division)},
		{"locationWdid", collapseVector(req.LocationWDIDs...)},
		{"callNumber", itoa(req.CallNumber)},
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

	resource := "administrativecalls/active"
	if req.Historical {
		resource = "administrativecalls/historical"
	}

	params := []arg{
		{"min-dateTimeSet", startDate},
		{"max-dateTimeSet", endDate},
		{"division", itoa(req.Division)},
		{"callNumber", itoa(req.CallNumber)},
	}
	// locationWdid is only sent when set, matching the upstream URL shape.
	if len(req.LocationWDIDs) > 0 {
		params = append(params, arg{"locationWdid", collapseVector(req.LocationWDIDs...)})
	}

	c.log.Info().Bool("historical", req.Historical).Msg("retrieving administrative calls")
	return c.paginate(ctx, resource, params)
}
