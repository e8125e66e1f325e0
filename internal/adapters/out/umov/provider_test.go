package umov_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"tracking/internal/adapters/out/umov"
)

const (
	deliveryToken = "tok-delivery"
	assemblyToken = "tok-assembly"
)

type response struct {
	status int
	body   string
}

func ok(body string) response { return response{status: http.StatusOK, body: body} }

// fakeProvider serves canned responses keyed by the path under the token root.
// Activity history lists are keyed by path and schedule id. When a key has a
// sequence of responses, each hit consumes one and the last one repeats.
type fakeProvider struct {
	mu        sync.Mutex
	responses map[string][]response
	hits      map[string]int
	queries   map[string]url.Values
	tokens    []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		responses: make(map[string][]response),
		hits:      make(map[string]int),
		queries:   make(map[string]url.Values),
	}
}

func (f *fakeProvider) on(key string, responses ...response) *fakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = responses
	return f
}

func (f *fakeProvider) hitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeProvider) query(key string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[key]
}

func (f *fakeProvider) tokensSeen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rest, found := strings.CutPrefix(r.URL.Path, "/api/")
	if !found {
		http.NotFound(w, r)
		return
	}
	token, path, _ := strings.Cut(rest, "/")
	f.tokens = append(f.tokens, token)

	key := "/" + path
	if key == "/activityHistory.xml" {
		key += "#" + r.URL.Query().Get("schedule")
	}
	f.hits[key]++
	f.queries[key] = r.URL.Query()

	seq := f.responses[key]
	if len(seq) == 0 {
		http.NotFound(w, r)
		return
	}
	resp := seq[min(f.hits[key], len(seq))-1]

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeProvider) start(t *testing.T) (*httptest.Server, umov.Config) {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	cfg := umov.DefaultConfig()
	cfg.BaseURL = server.URL + "/api"
	cfg.Delivery.Token = deliveryToken
	cfg.Assembly.Token = assemblyToken
	cfg.RequestTimeout = 2 * time.Second
	cfg.MaxRetries = 1
	cfg.RetryMinDelay = time.Millisecond
	cfg.RetryMaxDelay = 2 * time.Millisecond
	cfg.BreakerThreshold = 0
	return server, cfg
}

func entriesXML(ids ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><result><resourceName>list</resourceName><entries>`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<entry id="%s" link="x/%s.xml"/>`, id, id)
	}
	b.WriteString(`</entries></result>`)
	return b.String()
}

type scheduleFixture struct {
	taskType    string
	situation   string
	insert      string
	agent       string
	fields      map[string]string
	activityIDs []string
}

func scheduleXML(s scheduleFixture) string {
	var fields strings.Builder
	for name, value := range s.fields {
		fmt.Fprintf(&fields, "<%s>%s</%s>", name, value, name)
	}
	var activities strings.Builder
	for _, id := range s.activityIDs {
		fmt.Fprintf(&activities, `<activity id="%s"/>`, id)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<schedule>
  <id>1</id>
  <situation><id>50</id><description>%s</description></situation>
  <scheduleType><id>7</id><description>%s</description></scheduleType>
  <insertDateTime>%s</insertDateTime>
  <agent><id>3</id><name>%s</name></agent>
  <customFields>%s</customFields>
  <activities>%s</activities>
</schedule>`, s.situation, s.taskType, s.insert, s.agent, fields.String(), activities.String())
}

func activityXML(id, description, finish, endSync, status string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<activityHistory>
  <activity><id>%s</id><description>%s</description></activity>
  <finishTimeOnSystem>%s</finishTimeOnSystem>
  <endTimeSync>%s</endTimeSync>
  <status>%s</status>
</activityHistory>`, id, description, finish, endSync, status)
}
