package cdss

import (
	"context"
	"fmt"
	"strings"
)

// referenceTables maps public table names to their REST resources.
var referenceTables = map[string]string{
	"county":              "referencetables/county",
	"waterdistricts":      "referencetables/waterdistrict",
	"waterdivisions":      "referencetables/waterdivision",
	"designatedbasins":    "referencetables/designatedbasin",
	"managementdistricts": "referencetables/managementdistrict",
	"telemetryparams":     "referencetables/telemetryparams",
	"climateparams":       "referencetables/climatestationmeastype",
	"divrectypes":         "referencetables/divrectypes",
	"flags":               "referencetables/stationflags",
}

// ReferenceTableNames lists the valid arguments to GetReferenceTable.
func ReferenceTableNames() []string {
	return []string{
		"county", "waterdistricts", "waterdivisions", "designatedbasins",
		"managementdistricts", "telemetryparams", "climateparams",
		"divrectypes", "flags",
	}
}

// GetReferenceTable fetches one of the API's lookup tables: county,
// waterdistricts, waterdivisions, designatedbasins, managementdistricts,
// telemetryparams, climateparams, divrectypes, or flags.
func (c *Client) GetReferenceTable(ctx context.Context, tableName string) (*Frame, error) {
	resource, ok := referenceTables[strings.ToLower(tableName)]
	if !ok {
		return nil, fmt.Errorf("invalid table name %q: expected one of %s",
			tableName, strings.Join(ReferenceTableNames(), ", "))
	}

	c.log.Info().Str("table", tableName).Msg("retrieving reference table")
	return c.paginate(ctx, resource, nil)
}
