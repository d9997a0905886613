package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mutmap/pkg/cache"
	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/overlay"
	"github.com/matzehuels/mutmap/pkg/pipeline"
	"github.com/matzehuels/mutmap/pkg/store"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]store.Record
	gets    int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]store.Record)}
}

func (m *memStore) Save(_ context.Context, rec store.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	rec, ok := m.records[id]
	if !ok {
		return store.Record{}, errors.New(errors.ErrCodeNotFound, "graph %s not found", id)
	}
	return rec, nil
}

func (m *memStore) Close(context.Context) error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, quietLogger())
	srv := httptest.NewServer(New(runner, st, quietLogger()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

const trioBody = `{
  "pedigree": [
    {"individualId": 1, "sex": "male",   "sampleIds": {"name": "S1"}},
    {"individualId": 2, "sex": "female", "sampleIds": {"name": "S2"}},
    {"individualId": 3, "sex": "female", "sampleIds": {"name": "S3", "children": [{"name": "LIB3"}]}}
  ],
  "layout": {
    "layout":   {"n": [2, 1], "nid": [[1, 2], [3]], "pos": [[0, 1], [0.5]], "spouse": [[1, 0], [0]]},
    "pedigree": {"findex": [0, 0, 1], "mindex": [0, 0, 2]}
  },
  "variants": {
    "header": {"sampleNames": ["GL-1", "LB-LIB3"]},
    "records": [{
      "CHROM": "1", "POS": 10, "REF": "A", "ALT": "T",
      "INFO": {"DNL": "LB-LIB3", "DNT": "A>T"},
      "GL-1": {"GT": "0/0"},
      "LB-LIB3": {"GT": "0/1"}
    }]
  }
}`

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/v1/graphs", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateAndGetGraph(t *testing.T) {
	st := newMemStore()
	srv := newTestServer(t, st)

	resp := post(t, srv.URL, trioBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if !store.ValidID(created.ID) {
		t.Fatalf("id = %q", created.ID)
	}
	if created.Mutation != "A>T" {
		t.Errorf("mutation = %q, want A>T", created.Mutation)
	}
	if len(created.Graph.Nodes) != 4 || len(created.Graph.Links) != 3 {
		t.Errorf("graph = %d nodes, %d links, want 4, 3", len(created.Graph.Nodes), len(created.Graph.Links))
	}
	if len(created.Notices) != 0 || len(created.Unmatched) != 0 {
		t.Errorf("notices = %v, unmatched = %v", created.Notices, created.Unmatched)
	}

	get, err := http.Get(srv.URL + "/v1/graphs/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", get.StatusCode)
	}
	var rec store.Record
	if err := json.NewDecoder(get.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != created.ID || rec.GraphHash != created.GraphHash {
		t.Errorf("stored record = %+v", rec)
	}
	if st.gets != 0 {
		t.Errorf("store read %d times, want cached read", st.gets)
	}
}

func TestCreateNotice(t *testing.T) {
	srv := newTestServer(t, nil)
	body := bytes.Replace([]byte(trioBody), []byte(`"DNL": "LB-LIB3"`), []byte(`"DNL": "LB-NOBODY"`), 1)

	resp := post(t, srv.URL, string(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID != "" {
		t.Errorf("id = %q without a store", created.ID)
	}
	if len(created.Notices) != 1 || created.Notices[0] != overlay.NoticeNotFound {
		t.Errorf("notices = %v", created.Notices)
	}
}

func TestCreateStrictOverlay(t *testing.T) {
	srv := newTestServer(t, nil)
	body := bytes.Replace([]byte(trioBody), []byte(`"DNL": "LB-LIB3"`), []byte(`"DNL": "LB-NOBODY"`), 1)
	body = bytes.Replace(body, []byte(`"pedigree": [`), []byte(`"options": {"overlayStrict": true}, "pedigree": [`), 1)

	resp := post(t, srv.URL, string(body))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var e ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	if e.Code != errors.ErrCodeOverlayNotFound || !strings.Contains(e.Message, `"NOBODY"`) {
		t.Errorf("error = %+v", e)
	}
}

func TestCreateErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		name    string
		body    string
		status  int
		code    errors.Code
		message string
	}{
		{"malformed", `{"pedigree": [`, http.StatusBadRequest, errors.ErrCodeInvalidFormat, "decode request"},
		{"no layout", `{"pedigree": [{"individualId": 1}]}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, ""},
		{
			"duplicate id",
			`{"pedigree": [{"individualId": 1}, {"individualId": 1}], "layout": {"layout": {"n": []}}}`,
			http.StatusUnprocessableEntity, errors.ErrCodeDuplicateID, "build: record 1: ",
		},
		{
			"unknown layout id",
			`{"pedigree": [{"individualId": 1}], "layout": {"layout": {"n": [1], "nid": [[7]], "pos": [[0]], "spouse": [[0]]}}}`,
			http.StatusUnprocessableEntity, errors.ErrCodeNotFound, "layout: cell (0,0): ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
			if !strings.HasPrefix(e.Message, tt.message) || strings.Contains(e.Message, string(tt.code)+":") {
				t.Errorf("message = %q, want prefix %q without code", e.Message, tt.message)
			}
		})
	}
}

func TestGetGraphErrors(t *testing.T) {
	tests := []struct {
		name   string
		store  store.Store
		id     string
		status int
	}{
		{"no store", nil, "0b7c2f2e-4d6a-4f43-9a57-1f3f3f0e2a11", http.StatusNotImplemented},
		{"bad id", newMemStore(), "not-a-uuid", http.StatusBadRequest},
		{"missing", newMemStore(), "0b7c2f2e-4d6a-4f43-9a57-1f3f3f0e2a11", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.store)
			resp, err := http.Get(srv.URL + "/v1/graphs/" + tt.id)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}
