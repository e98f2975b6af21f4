package gamma

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public-search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "rain" || q.Get("events_status") != "active" {
			t.Errorf("query = %v", q)
		}
		if q.Get("limit_per_type") != "20" || q.Get("search_tags") != "true" {
			t.Errorf("query = %v", q)
		}

		fmt.Fprint(w, `{"events": [
			{"id": "1", "title": "Rain tomorrow?", "slug": "rain-tomorrow", "volume": 12345.6,
			 "active": true,
			 "markets": [{"question": "Will it rain?", "conditionId": "0xabc",
			              "clobTokenIds": "[\"tok1\", \"tok2\"]"}]}
		]}`)
	}))
	defer srv.Close()

	result, err := New(srv.URL).Search("rain", 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(result.Events))
	}
	ev := result.Events[0]
	if ev.Title != "Rain tomorrow?" || !ev.Active {
		t.Errorf("event = %+v", ev)
	}
	if ev.VolumeUSD() != 12345.6 {
		t.Errorf("volume = %v", ev.VolumeUSD())
	}
	if len(ev.Markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(ev.Markets))
	}

	// clobTokenIds arrives double-encoded.
	ids := ev.Markets[0].ClobTokenIDs
	if len(ids) != 2 || ids[0] != "tok1" || ids[1] != "tok2" {
		t.Errorf("token ids = %v", ids)
	}
}

func TestTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tags" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"id": "2", "label": "Politics", "slug": "politics"}]`)
	}))
	defer srv.Close()

	tags, err := New(srv.URL).Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Label != "Politics" {
		t.Errorf("tags = %+v", tags)
	}
}

func TestEventBySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/slug/rain-tomorrow" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "1", "title": "Rain tomorrow?", "slug": "rain-tomorrow", "volume": "987"}`)
	}))
	defer srv.Close()

	ev, err := New(srv.URL).EventBySlug("rain-tomorrow")
	if err != nil {
		t.Fatalf("EventBySlug: %v", err)
	}
	if ev.Slug != "rain-tomorrow" {
		t.Errorf("slug = %q", ev.Slug)
	}
	// Volume is sometimes a quoted number.
	if ev.VolumeUSD() != 987 {
		t.Errorf("volume = %v", ev.VolumeUSD())
	}
}
