package cdss

import "context"

// WaterRightsRequest locates water rights by spatial search or by
// administrative area. Shared by the net amount and transaction
// endpoints.
type WaterRightsRequest struct {
	AOI           AOI
	Radius        *int
	County        string
	Division      int
	WaterDistrict int
	WDID          string
}

func (req WaterRightsRequest) validationArgs() []arg {
	return []arg{
		{"aoi", presence(req.AOI != nil)},
		{"radius", presencePtr(req.Radius)},
		{"county", req.County},
		{"division", itoa(req.Division)},
		{"waterDistrict", itoa(req.WaterDistrict)},
		{"wdid", req.WDID},
	}
}

func (c *Client) getWaterRights(ctx context.Context, resource string, req WaterRightsRequest) (*Frame, error) {
	if err := checkArgs(policyAll, req.validationArgs()); err != nil {
		return nil, err
	}

	geo, err := checkAOI(req.AOI, req.Radius)
	if err != nil {
		return nil, err
	}

	frame, err := c.paginate(ctx, resource, []arg{
		{"county", req.County},
		{"division", itoa(req.Division)},
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

// GetWaterRightsNetAmounts queries /waterrights/netamount: the current
// status of a water right based on its court decrees.
func (c *Client) GetWaterRightsNetAmounts(ctx context.Context, req WaterRightsRequest) (*Frame, error) {
	c.log.Info().Msg("retrieving water rights net amounts")
	return c.getWaterRights(ctx, "waterrights/netamount", req)
}

// GetWaterRightsTransactions queries /waterrights/transaction: the
// court document history of a water right.
func (c *Client) GetWaterRightsTransactions(ctx context.Context, req WaterRightsRequest) (*Frame, error) {
	c.log.Info().Msg("retrieving water rights transactions")
	return c.getWaterRights(ctx, "waterrights/transaction", req)
}
