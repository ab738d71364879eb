package cdss

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetCallAnalysisWDID_Batching(t *testing.T) {
	var urls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urls = append(urls, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]any{
			"ResultList": []Record{{"analysisDate": r.URL.Query().Get("startDate")}},
		})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	frame, err := c.GetCallAnalysisWDID(context.Background(), CallAnalysisWDIDRequest{
		WDID:      "0301234",
		AdminNo:   "39226.00000",
		StartDate: "2019-06-01",
		EndDate:   "2021-03-01",
		Batch:     true,
	})
	if err != nil {
		t.Fatalf("GetCallAnalysisWDID: %v", err)
	}

	// 2019, 2020, and 2021 spans, one query each.
	if len(urls) != 3 {
		t.Fatalf("requests = %d, want 3: %v", len(urls), urls)
	}
	if frame.Len() != 3 {
		t.Errorf("rows = %d, want one per span", frame.Len())
	}
	if !strings.Contains(urls[0], "startDate=06%2F01%2F2019") || !strings.Contains(urls[0], "endDate=12%2F31%2F2019") {
		t.Errorf("first span bounds wrong: %q", urls[0])
	}
	if !strings.Contains(urls[2], "startDate=01%2F01%2F2021") || !strings.Contains(urls[2], "endDate=03%2F01%2F2021") {
		t.Errorf("last span bounds wrong: %q", urls[2])
	}
}

func TestGetCallAnalysisWDID_Unbatched(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetCallAnalysisWDID(context.Background(), CallAnalysisWDIDRequest{
		WDID:      "0301234",
		AdminNo:   "39226.00000",
		StartDate: "2019-06-01",
		EndDate:   "2021-03-01",
	})
	if err != nil {
		t.Fatalf("GetCallAnalysisWDID: %v", err)
	}
	if len(*urls) != 1 {
		t.Fatalf("requests = %d, want 1", len(*urls))
	}
	if !strings.HasPrefix((*urls)[0], "/analysisservices/callanalysisbywdid/?") {
		t.Errorf("got %q", (*urls)[0])
	}
}

func TestGetCallAnalysisGNIS_Validation(t *testing.T) {
	c := NewClient()
	_, err := c.GetCallAnalysisGNIS(context.Background(), CallAnalysisGNISRequest{
		GNISID: "00010001",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError when adminNo is empty, got %v", err)
	}
	if !strings.Contains(err.Error(), "adminNo") {
		t.Errorf("error %q does not name adminNo", err.Error())
	}
}

func TestGetSourceRouteFramework_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetSourceRouteFramework(context.Background(), SourceRouteFrameworkRequest{
		Division: 7,
	})
	if err != nil {
		t.Fatalf("GetSourceRouteFramework: %v", err)
	}
	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/analysisservices/watersourcerouteframework/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "division=7") {
		t.Errorf("url %q missing division", url)
	}
}

func TestGetSourceRouteAnalysis_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetSourceRouteAnalysis(context.Background(), SourceRouteAnalysisRequest{
		LowerGNISID:     "00010001",
		LowerStreamMile: 50.5,
		UpperGNISID:     "00010001",
		UpperStreamMile: 70,
	})
	if err != nil {
		t.Fatalf("GetSourceRouteAnalysis: %v", err)
	}
	url := lastURL(t, urls)
	if !strings.HasPrefix(url, "/analysisservices/watersourcerouteanalysis/?") {
		t.Errorf("got %q", url)
	}
	if !strings.Contains(url, "ltStreamMile=50.5") || !strings.Contains(url, "utStreamMile=70") {
		t.Errorf("stream miles wrong in %q", url)
	}
}

func TestGetSourceRouteAnalysis_Validation(t *testing.T) {
	c := NewClient()
	_, err := c.GetSourceRouteAnalysis(context.Background(), SourceRouteAnalysisRequest{
		LowerGNISID: "00010001",
		UpperGNISID: "00010001",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError for missing stream miles, got %v", err)
	}
}
