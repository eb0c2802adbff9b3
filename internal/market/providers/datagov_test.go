package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/transport"
)

func fastOptions(baseURL string) DataGovOptions {
	return DataGovOptions{
		BaseURL:           baseURL,
		APIKey:            "secret",
		PageLimit:         2,
		MaxPages:          5,
		RequestsPerSecond: 1000,
	}
}

func TestDataGovPagesUntilTotal(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/resource/"+DefaultMandiResourceID, r.URL.Path)
		assert.Equal(t, "secret", q.Get("api-key"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "Maharashtra", q.Get("filters[State]"))
		assert.Equal(t, "Pune", q.Get("filters[District]"))

		offset, _ := strconv.Atoi(q.Get("offset"))
		offsets = append(offsets, q.Get("offset"))

		n := 2
		if offset >= 2 {
			n = 1
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total": 3, "count": %d, "records": [`, n)
		for i := 0; i < n; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"commodity": "Onion", "arrival_date": "18/06/2026", "modal_price": %d}`, 2000+offset+i)
		}
		fmt.Fprint(w, "]}")
	}))
	defer srv.Close()

	p := NewDataGovProvider(transport.Config{Client: srv.Client()}, fastOptions(srv.URL))
	records, err := p.FetchRecords(context.Background(), geo.Region{State: "Maharashtra", District: "Pune"})
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "2"}, offsets)
	require.Len(t, records, 3)
	assert.Equal(t, "2002", string(records[2].ModalPrice))
}

func TestDataGovStateOnlyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDistrict := r.URL.Query()["filters[District]"]
		assert.False(t, hasDistrict)
		_, _ = w.Write([]byte(`{"total": 0, "count": 0, "records": []}`))
	}))
	defer srv.Close()

	p := NewDataGovProvider(transport.Config{Client: srv.Client()}, fastOptions(srv.URL))
	records, err := p.FetchRecords(context.Background(), geo.Region{State: "Maharashtra"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDataGovStopsAtMaxPages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"total": 100, "records": [{"commodity": "Onion"}, {"commodity": "Tomato"}]}`))
	}))
	defer srv.Close()

	opts := fastOptions(srv.URL)
	opts.MaxPages = 3
	p := NewDataGovProvider(transport.Config{Client: srv.Client()}, opts)
	records, err := p.FetchRecords(context.Background(), geo.Region{State: "Kerala"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, records, 6)
}

func TestDataGovWithoutKey(t *testing.T) {
	p := NewDataGovProvider(transport.Config{Client: http.DefaultClient}, DataGovOptions{})
	_, err := p.FetchRecords(context.Background(), geo.Region{State: "Kerala"})
	assert.ErrorIs(t, err, apperr.ErrNetwork)
}

func TestDataGovMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	p := NewDataGovProvider(transport.Config{Client: srv.Client()}, fastOptions(srv.URL))
	_, err := p.FetchRecords(context.Background(), geo.Region{State: "Kerala"})
	assert.ErrorIs(t, err, apperr.ErrMalformedPayload)
}
