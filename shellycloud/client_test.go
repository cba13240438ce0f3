package shellycloud

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDevices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v2/devices", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"devices":[
			{"id":"a1b2c3","name":"Heat pump","type":"3EM"},
			{"id":"d4e5f6","name":"Dishwasher","type":"PlusPM"}
		]}`))
	}))
	defer server.Close()

	client := New(http.Client{}, server.URL, "test-key")
	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []DiscoveredDevice{
		{ID: "a1b2c3", Name: "Heat pump", Type: "3EM"},
		{ID: "d4e5f6", Name: "Dishwasher", Type: "PlusPM"},
	}, devices)
}

func TestListDevicesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(http.Client{}, server.URL, "bad-key")
	_, err := client.ListDevices(context.Background())
	assert.Error(t, err)
}

func TestGetStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v2/devices/status", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ids":["a1","b2","c3"]}`, string(body))

		// c3 has no status available and is omitted from the response
		w.Write([]byte(`{"data":{
			"a1":{"switches":[{"apower":5}]},
			"b2":{"emeters":[{"power":100},{"power":200},{"power":300}]}
		}}`))
	}))
	defer server.Close()

	client := New(http.Client{}, server.URL, "test-key")
	statuses, err := client.GetStatuses(context.Background(), []string{"a1", "b2", "c3"})
	require.NoError(t, err)

	require.Len(t, statuses, 2)
	assert.JSONEq(t, `{"switches":[{"apower":5}]}`, string(statuses["a1"]))
	assert.JSONEq(t, `{"emeters":[{"power":100},{"power":200},{"power":300}]}`, string(statuses["b2"]))
	_, found := statuses["c3"]
	assert.False(t, found)
}

func TestGetStatusesErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Non-200 status code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "Malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data":`))
			},
		},
		{
			name: "Response without data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"isok":false}`))
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(test.handler)
			defer server.Close()

			client := New(http.Client{}, server.URL, "test-key")
			_, err := client.GetStatuses(context.Background(), []string{"a1"})
			assert.Error(t, err)
		})
	}
}

func TestGetStatusesMarshalsIDs(t *testing.T) {
	var received struct {
		IDs []string `json:"ids"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := New(http.Client{}, server.URL, "test-key")
	statuses, err := client.GetStatuses(context.Background(), []string{"x", "y"})
	require.NoError(t, err)
	assert.Empty(t, statuses)
	assert.Equal(t, []string{"x", "y"}, received.IDs)
}
