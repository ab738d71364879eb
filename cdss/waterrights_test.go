package cdss

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGetWaterRightsNetAmounts_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetWaterRightsNetAmounts(context.Background(), WaterRightsRequest{
		AOI: Point{Lng: -105.5, Lat: 40.2},
	})
	if err != nil {
		t.Fatalf("GetWaterRightsNetAmounts: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/waterrights/netamount/?") {
		t.Errorf("got %q", url)
	}
	for _, want := range []string{"latitude=40.20000", "longitude=-105.50000", "radius=20", "units=miles"} {
		if !strings.Contains(url, want) {
			t.Errorf("url %q missing %q", url, want)
		}
	}
}

func TestGetWaterRightsTransactions_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetWaterRightsTransactions(context.Background(), WaterRightsRequest{
		WaterDistrict: 80,
	})
	if err != nil {
		t.Fatalf("GetWaterRightsTransactions: %v", err)
	}

	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/waterrights/transaction/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "waterDistrict=80") {
		t.Errorf("url %q missing waterDistrict", url)
	}
}

func TestGetWaterRights_Validation(t *testing.T) {
	c := NewClient()
	_, err := c.GetWaterRightsNetAmounts(context.Background(), WaterRightsRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}
