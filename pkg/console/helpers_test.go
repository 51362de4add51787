package console

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned envelopes and counts hits per route
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		t:      t,
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.hits[key]++
		h, ok := f.routes[key]
		f.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, envelopeBody{Code: http.StatusNotFound, Message: "no route"})
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" /api"+path] = h
}

func (f *fakeAPI) hitCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[method+" /api"+path]
}

func (f *fakeAPI) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

func (f *fakeAPI) baseURL() string {
	return f.server.URL + "/api"
}

type envelopeBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, body envelopeBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func okHandler(data interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, envelopeBody{Code: http.StatusOK, Data: data})
	}
}

func failHandler(status int, errorCode, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, status, envelopeBody{Code: status, Error: errorCode, Message: message})
	}
}

func newTestClient(t *testing.T, f *fakeAPI, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = f.baseURL()
	if cfg.RPS == 0 {
		cfg.RPS = 1000
	}
	c, err := New(cfg, NewSession())
	require.NoError(t, err)
	return c
}

// loggedIn returns a client whose session holds a valid token for role
func loggedIn(t *testing.T, f *fakeAPI, role Role) *Client {
	c := newTestClient(t, f, Config{})
	c.Session().Init("test-token", &User{ID: 7, Username: "tester", Role: role}, time.Now().Add(time.Hour))
	return c
}

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte("\xff\xd8\xff\xe0")
	gifMagic  = []byte("GIF89a")
)

func imageOf(name string, magic []byte, size int) ImageFile {
	data := make([]byte, size)
	copy(data, magic)
	return NewImageFile(name, data)
}

func readJSON(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}
