package clob

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSamplingMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sampling-markets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data": [
			{"condition_id": "0xabc", "question": "Will it rain?", "active": true, "accepting_orders": true,
			 "tokens": [{"outcome": "Yes", "price": "0.65", "token_id": "tok1"},
			            {"outcome": "No", "price": "0.35", "token_id": "tok2"}]}
		]}`)
	}))
	defer srv.Close()

	markets, err := New(srv.URL).SamplingMarkets()
	if err != nil {
		t.Fatalf("SamplingMarkets: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(markets))
	}
	m := markets[0]
	if m.ConditionID != "0xabc" || !m.Active || !m.AcceptingOrders {
		t.Errorf("market = %+v", m)
	}
	if len(m.Tokens) != 2 || m.Tokens[0].Price != 650_000 {
		t.Errorf("tokens = %+v", m.Tokens)
	}
}

func TestGetAllMarketsPagination(t *testing.T) {
	lastCursor := base64.StdEncoding.EncodeToString([]byte("-1"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("next_cursor") {
		case "":
			fmt.Fprintf(w, `{"data": [{"condition_id": "m1"}], "next_cursor": "page2"}`)
		case "page2":
			fmt.Fprintf(w, `{"data": [{"condition_id": "m2"}], "next_cursor": %q}`, lastCursor)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("next_cursor"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	markets, err := New(srv.URL).GetAllMarkets()
	if err != nil {
		t.Fatalf("GetAllMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("markets = %d, want 2", len(markets))
	}
	if markets[0].ConditionID != "m1" || markets[1].ConditionID != "m2" {
		t.Errorf("markets = %v, %v", markets[0].ConditionID, markets[1].ConditionID)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).SamplingMarkets(); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
