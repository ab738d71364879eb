package cdss

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooManyPages is returned when a paginated query exceeds the
// client's page limit without seeing a short page.
var ErrTooManyPages = errors.New("cdss: page limit exceeded")

// ValidationError reports request fields that were required but empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		quoted[i] = "'" + name + "'"
	}
	return "invalid or missing " + strings.Join(quoted, ", ") + " arguments"
}

// CRSError reports AOI coordinates outside the EPSG:4326 envelope.
type CRSError struct {
	Lng, Lat float64
}

func (e *CRSError) Error() string {
	return fmt.Sprintf("invalid aoi CRS: coordinates (%g, %g) outside EPSG:4326, reproject before querying", e.Lng, e.Lat)
}

// AOIError reports an unusable area-of-interest value.
type AOIError struct {
	Reason string
}

func (e *AOIError) Error() string {
	return "invalid aoi: " + e.Reason
}

// QueryError wraps a failed page fetch with the arguments and URL of
// the originating call. Diagnostic only; the cause carries the HTTP
// detail.
type QueryError struct {
	Args []arg
	URL  string
	Err  error
}

func (e *QueryError) Error() string {
	var b strings.Builder
	b.WriteString("data retrieval error\nquery:\n")
	for _, a := range e.Args {
		fmt.Fprintf(&b, "%s: %s\n", a.name, a.value)
	}
	b.WriteString("requested URL: ")
	b.WriteString(e.URL)
	b.WriteString("\n\noriginal error: ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *QueryError) Unwrap() error { return e.Err }

// StatusError is the non-200 response underlying a QueryError.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cdss API returned status %d: %s", e.StatusCode, e.Body)
}
