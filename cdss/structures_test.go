package cdss

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGetStructures_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetStructures(context.Background(), StructuresRequest{
		WDIDs:    []string{"0301234", "0305678"},
		Division: 1,
	})
	if err != nil {
		t.Fatalf("GetStructures: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/structures/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "wdid=0301234%2C+0305678") {
		t.Errorf("url %q missing collapsed wdid list", url)
	}
	if !strings.Contains(url, "division=1") {
		t.Errorf("url %q missing division", url)
	}
}

func TestGetWaterClasses_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetWaterClasses(context.Background(), WaterClassesRequest{
		WDIDs:        []string{"0303732"},
		WCIdentifier: "diversion",
		Timestep:     "monthly",
	})
	if err != nil {
		t.Fatalf("GetWaterClasses: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/structures/divrec/waterclasses/?") {
		t.Errorf("got %q", url)
	}
	for _, want := range []string{
		"timestep=month",
		"wcIdentifier=*diversion*",
		"wdid=0303732",
		// period-of-record bounds stay empty when not given
		"min-porStart=&",
		"min-porEnd=&",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("url %q missing %q", url, want)
		}
	}
}

func TestGetWaterClasses_Validation(t *testing.T) {
	c := NewClient()

	// The AOI does not satisfy the filter requirement for water classes;
	// one of wdid/county/division/waterDistrict/wcIdentifier must be set.
	_, err := c.GetWaterClasses(context.Background(), WaterClassesRequest{
		AOI: Point{Lng: -105, Lat: 39},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	_, err = c.GetWaterClasses(context.Background(), WaterClassesRequest{
		WDIDs:      []string{"0303732"},
		DivRecType: "notarecord",
	})
	if err == nil || !strings.Contains(err.Error(), "divrectype") {
		t.Fatalf("invalid divrectype should fail, got %v", err)
	}
}

func TestGetDivRecTimeSeries_LayoutFollowsTimescale(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.GetDivRecTimeSeries(context.Background(), DivRecTimeSeriesRequest{
		WDIDs:     []string{"0301234"},
		StartDate: "2019-05-10",
		EndDate:   "2020-02-01",
		Timescale: "month",
	})
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/structures/divrec/divrecmonth/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "min-dataMeasDate=05%2F2019") || !strings.Contains(url, "max-dataMeasDate=02%2F2020") {
		t.Errorf("month layout not applied: %q", url)
	}

	_, err = c.GetDivRecTimeSeries(context.Background(), DivRecTimeSeriesRequest{
		WDIDs:     []string{"0301234"},
		StartDate: "2019-05-10",
		EndDate:   "2020-02-01",
		Timescale: "year",
	})
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	url = lastURL(t, urls)
	if !strings.HasPrefix(url, "/structures/divrec/divrecyear/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "min-dataMeasDate=2019") || !strings.Contains(url, "max-dataMeasDate=2020") {
		t.Errorf("year layout not applied: %q", url)
	}
}

func TestGetDivRecTimeSeries_DefaultWaterClass(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetDivRecTimeSeries(context.Background(), DivRecTimeSeriesRequest{
		WDIDs: []string{"0301234"},
	})
	if err != nil {
		t.Fatalf("GetDivRecTimeSeries: %v", err)
	}
	if !strings.Contains(lastURL(t, urls), "wcIdentifier=*diversion*") {
		t.Errorf("default wcIdentifier not applied: %q", lastURL(t, urls))
	}
}

func TestGetDivRecTimeSeries_RequiresWDID(t *testing.T) {
	c := NewClient()
	_, err := c.GetDivRecTimeSeries(context.Background(), DivRecTimeSeriesRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestGetStageVolumeTimeSeries_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithClock(fixedClock(t, "2022-06-15")))
	_, err := c.GetStageVolumeTimeSeries(context.Background(), StageVolumeRequest{
		WDIDs:     []string{"0301234"},
		StartDate: "2021-01-01",
	})
	if err != nil {
		t.Fatalf("GetStageVolumeTimeSeries: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/structures/divrec/stagevolume/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "min-dataMeasDate=01%2F01%2F2021") {
		t.Errorf("url %q missing start date", url)
	}
	if !strings.Contains(url, "max-dataMeasDate=06%2F15%2F2022") {
		t.Errorf("url %q missing clock-derived end date", url)
	}
}
