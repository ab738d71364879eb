package cdss

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGetWaterLevelWells_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetWaterLevelWells(context.Background(), GroundwaterWellsRequest{
		County:   "ADAMS",
		Division: 1,
	})
	if err != nil {
		t.Fatalf("GetWaterLevelWells: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/groundwater/waterlevels/wells/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "county=ADAMS") || !strings.Contains(url, "division=1") {
		t.Errorf("filters missing in %q", url)
	}
}

func TestGetGeophysicalLogWells_Validation(t *testing.T) {
	c := NewClient()
	_, err := c.GetGeophysicalLogWells(context.Background(), GroundwaterWellsRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestGetWaterLevelMeasurements_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithClock(fixedClock(t, "2022-06-15")))
	_, err := c.GetWaterLevelMeasurements(context.Background(), WaterLevelMeasurementsRequest{
		WellID:    "1234",
		StartDate: "2020-01-15",
	})
	if err != nil {
		t.Fatalf("GetWaterLevelMeasurements: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/groundwater/waterlevels/wellmeasurements/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "min-measurementDate=01%2F15%2F2020") {
		t.Errorf("url %q missing start bound", url)
	}
	if !strings.Contains(url, "max-measurementDate=06%2F15%2F2022") {
		t.Errorf("url %q missing end bound", url)
	}
}

func TestGetWaterLevelMeasurements_RequiresWellID(t *testing.T) {
	c := NewClient()
	_, err := c.GetWaterLevelMeasurements(context.Background(), WaterLevelMeasurementsRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != "wellId" {
		t.Errorf("missing = %v, want [wellId]", verr.Missing)
	}
}

func TestGetGeophysicalLogPicks_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetGeophysicalLogPicks(context.Background(), "5678")
	if err != nil {
		t.Fatalf("GetGeophysicalLogPicks: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/groundwater/geophysicallogs/geoplogpicks/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "wellId=5678") {
		t.Errorf("url %q missing wellId", url)
	}

	if _, err := c.GetGeophysicalLogPicks(context.Background(), ""); err == nil {
		t.Error("empty wellId should fail validation")
	}
}
