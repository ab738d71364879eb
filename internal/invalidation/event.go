// Package invalidation defines the cache invalidation event contract.
package invalidation

import (
	"fmt"
	"strings"
	"time"
)

// Event announces that upstream data under a resource changed and the
// cached responses for it are stale. Division and WDID narrow the
// blast radius when the producer knows them; resource-wide events are
// valid too.
type Event struct {
	Version  int       `json:"version"`
	Op       string    `json:"op"`
	Resource string    `json:"resource"`
	TS       time.Time `json:"ts"`
	Division int       `json:"division,omitempty"`
	WDID     string    `json:"wdid,omitempty"`
	Source   string    `json:"source,omitempty"`
}

func (e Event) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case "insert", "update", "delete":
	default:
		return fmt.Errorf("op must be insert|update|delete")
	}
	if strings.TrimSpace(e.Resource) == "" {
		return fmt.Errorf("resource is required")
	}
	if strings.ContainsAny(e.Resource, " \t\n") {
		return fmt.Errorf("resource must not contain whitespace")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	if e.Division < 0 || e.Division > 7 {
		return fmt.Errorf("division must be 0 (unset) or 1-7")
	}
	return nil
}
