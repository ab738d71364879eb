package cdss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureServer records each requested path+query and answers with an
// empty result page.
func captureServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var urls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urls = append(urls, r.URL.Path+"?"+r.URL.RawQuery)
		fmt.Fprint(w, `{"ResultList":[]}`)
	}))
	return srv, &urls
}

func lastURL(t *testing.T, urls *[]string) string {
	t.Helper()
	if len(*urls) == 0 {
		t.Fatal("no requests were made")
	}
	return (*urls)[len(*urls)-1]
}

func TestGetTelemetryStations_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetTelemetryStations(context.Background(), TelemetryStationsRequest{
		AOI:    Point{Lng: -105.35, Lat: 39.1},
		Radius: Int(10),
	})
	if err != nil {
		t.Fatalf("GetTelemetryStations: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/telemetrystations/telemetrystation/?") {
		t.Errorf("unexpected path in %q", url)
	}
	for _, want := range []string{
		"format=json", "dateFormat=spaceSepToSeconds",
		"latitude=39.10000", "longitude=-105.35000",
		"radius=10", "units=miles", "includeThirdParty=true",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("url %q missing %q", url, want)
		}
	}
}

func TestGetTelemetryStations_RequiresAFilter(t *testing.T) {
	c := NewClient()
	_, err := c.GetTelemetryStations(context.Background(), TelemetryStationsRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	// Every filter name appears, including the spatial ones.
	for _, name := range []string{"aoi", "radius", "abbrev", "county", "division", "gnisId", "usgsId", "waterDistrict", "wdid"} {
		if !strings.Contains(err.Error(), "'"+name+"'") {
			t.Errorf("error %q does not name %s", err.Error(), name)
		}
	}
}

func TestGetTelemetryStations_BadAOI(t *testing.T) {
	c := NewClient()
	_, err := c.GetTelemetryStations(context.Background(), TelemetryStationsRequest{
		AOI: Point{Lng: 500000, Lat: 4400000},
	})
	var crs *CRSError
	if !errors.As(err, &crs) {
		t.Fatalf("expected *CRSError, got %v", err)
	}
}

func TestGetTelemetryTimeSeries_Defaults(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithClock(fixedClock(t, "2022-06-15")))
	_, err := c.GetTelemetryTimeSeries(context.Background(), TelemetryTimeSeriesRequest{
		Abbrevs: []string{"CLAFTCCO"},
	})
	if err != nil {
		t.Fatalf("GetTelemetryTimeSeries: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/telemetrystations/telemetrytimeseriesday/?") {
		t.Errorf("default timescale should pick the day resource, got %q", url)
	}
	for _, want := range []string{
		"abbrev=CLAFTCCO",
		"parameter=DISCHRG",
		"startDate=01%2F01%2F1900",
		"endDate=06%2F15%2F2022",
		"includeThirdParty=true",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("url %q missing %q", url, want)
		}
	}
}

func TestGetTelemetryTimeSeries_TimescaleAndThirdParty(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetTelemetryTimeSeries(context.Background(), TelemetryTimeSeriesRequest{
		Abbrevs:           []string{"CLAFTCCO", "PLAKERCO"},
		Timescale:         "raw",
		ExcludeThirdParty: true,
	})
	if err != nil {
		t.Fatalf("GetTelemetryTimeSeries: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/telemetrystations/telemetrytimeseriesraw/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "abbrev=CLAFTCCO%2C+PLAKERCO") {
		t.Errorf("url %q missing collapsed abbrev list", url)
	}
	if !strings.Contains(url, "includeThirdParty=false") {
		t.Errorf("url %q should disable third party data", url)
	}
}

func TestGetTelemetryTimeSeries_Validation(t *testing.T) {
	c := NewClient()

	_, err := c.GetTelemetryTimeSeries(context.Background(), TelemetryTimeSeriesRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("missing abbrev should fail validation, got %v", err)
	}

	_, err = c.GetTelemetryTimeSeries(context.Background(), TelemetryTimeSeriesRequest{
		Abbrevs:   []string{"CLAFTCCO"},
		Timescale: "week",
	})
	if err == nil || !strings.Contains(err.Error(), "timescale") {
		t.Fatalf("invalid timescale should fail, got %v", err)
	}
}
