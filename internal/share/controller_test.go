package share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/page"
	"github.com/ppiankov/factview/internal/result"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/view"
)

type fakeSaver struct {
	resp  *model.ShareResponse
	err   error
	calls int
	last  model.SharedResultRecord
}

func (f *fakeSaver) SaveSharedResult(ctx context.Context, auth backend.Auth, rec model.SharedResultRecord) (*model.ShareResponse, error) {
	f.calls++
	f.last = rec
	return f.resp, f.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return f.err
}

func newController(saver Saver, st *session.State) *Controller {
	return NewController(saver, view.NewRenderer(view.Builder{}, st), st, backend.Auth{CSRFToken: "tok"}, "http://localhost:8000/", nil)
}

func TestShare_NothingToShare(t *testing.T) {
	saver := &fakeSaver{}
	st := &session.State{}
	p := view.NewPage()

	err := newController(saver, st).Share(context.Background(), p, true)
	assert.ErrorIs(t, err, ErrNothingToShare)
	assert.Zero(t, saver.calls)
	assert.Equal(t, view.Status{}, p.Status)
}

func TestShare_Success(t *testing.T) {
	saver := &fakeSaver{resp: &model.ShareResponse{Success: true, Message: "Result saved", SharedURL: "/shared/abc/"}}
	st := &session.State{}
	raw := `{"analyses": [{"claim": "a"}]}`
	st.Remember("q", result.Classify([]byte(raw)))
	p := view.NewPage()

	require.NoError(t, newController(saver, st).Share(context.Background(), p, true))

	assert.Equal(t, "q", saver.last.Query)
	assert.JSONEq(t, raw, string(saver.last.ResultData))
	assert.True(t, saver.last.IsPublic)

	assert.True(t, p.ShareLinkVisible)
	assert.Equal(t, "http://localhost:8000/shared/abc/", p.ShareLink)
	assert.Equal(t, view.Status{Text: "Result saved"}, p.Status)
}

func TestShare_Declined(t *testing.T) {
	saver := &fakeSaver{resp: &model.ShareResponse{Success: false, Message: "Only public results can be shared"}}
	st := &session.State{}
	st.Remember("q", result.Classify([]byte(`[]`)))
	p := view.NewPage()

	require.NoError(t, newController(saver, st).Share(context.Background(), p, false))
	assert.False(t, p.ShareLinkVisible)
	assert.Equal(t, view.Status{Text: "Only public results can be shared", Error: true}, p.Status)
}

func TestShare_NetworkFailureKeepsLink(t *testing.T) {
	saver := &fakeSaver{resp: &model.ShareResponse{Success: true, Message: "ok", SharedURL: "/shared/1/"}}
	st := &session.State{}
	st.Remember("q", result.Classify([]byte(`[]`)))
	p := view.NewPage()
	c := newController(saver, st)

	require.NoError(t, c.Share(context.Background(), p, true))

	saver.resp, saver.err = nil, errors.New("connection reset")
	err := c.Share(context.Background(), p, true)
	require.Error(t, err)

	assert.Equal(t, view.Status{Text: "Error saving result: connection reset", Error: true}, p.Status)
	assert.True(t, p.ShareLinkVisible)
	assert.Equal(t, "http://localhost:8000/shared/1/", p.ShareLink)
}

func TestRestore(t *testing.T) {
	st := &session.State{}
	c := newController(&fakeSaver{}, st)
	p := view.NewPage()

	embedded, err := EncodeEmbedded([]byte(`[{"claim":"X","label":"true"}]`))
	require.NoError(t, err)

	err = c.Restore(p, page.Attributes{IsSharedView: true, SharedResult: embedded, SharedQuery: "is X true"})
	require.NoError(t, err)

	assert.Equal(t, view.PhaseRendered, p.Phase)
	assert.Equal(t, "is X true", p.QueryInput)
	assert.Len(t, view.FindByClass(p.Results, "result-card"), 1)

	query, r := st.Snapshot()
	assert.Equal(t, "is X true", query)
	require.NotNil(t, r)
}

func TestRestore_Preconditions(t *testing.T) {
	c := newController(&fakeSaver{}, &session.State{})
	p := view.NewPage()

	assert.ErrorIs(t, c.Restore(p, page.Attributes{SharedResult: `"[]"`}), ErrNotSharedView)
	assert.NoError(t, c.Restore(p, page.Attributes{IsSharedView: true}))
	assert.Equal(t, view.PhaseIdle, p.Phase)
	assert.Nil(t, p.Results)
}

func TestRestore_DecodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		embedded string
	}{
		{"not json", `{{{`},
		{"single encoded", `[{"claim": "X"}]`},
		{"inner not json", `"not json"`},
		{"outer object", `{"claim": "X"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &session.State{}
			c := newController(&fakeSaver{}, st)
			p := view.NewPage()

			err := c.Restore(p, page.Attributes{IsSharedView: true, SharedResult: tt.embedded, SharedQuery: "q"})
			require.Error(t, err)

			assert.Equal(t, view.PhaseFailed, p.Phase)
			assert.True(t, p.ResultsVisible)
			msg := view.TextContent(view.FirstByClass(p.Results, "error"))
			assert.True(t, strings.HasPrefix(msg, RestoreErrorPrefix), msg)
			assert.Empty(t, p.QueryInput)
			assert.True(t, st.Empty())
		})
	}
}

func TestRestore_ScalarOuterShowsUnexpectedFormat(t *testing.T) {
	for _, embedded := range []string{`5`, `true`, `null`, `"5"`} {
		t.Run(embedded, func(t *testing.T) {
			st := &session.State{}
			c := newController(&fakeSaver{}, st)
			p := view.NewPage()

			require.NoError(t, c.Restore(p, page.Attributes{IsSharedView: true, SharedResult: embedded, SharedQuery: "q"}))

			assert.Equal(t, view.PhaseFailed, p.Phase)
			assert.Equal(t, view.UnexpectedFormat, view.TextContent(view.FirstByClass(p.Results, "error")))
			assert.True(t, st.Empty())
		})
	}
}

func TestDecodeEmbedded(t *testing.T) {
	tests := []struct {
		embedded string
		want     string
		wantErr  bool
	}{
		{`"[1,2]"`, `[1,2]`, false},
		{`"{\"a\": 1}"`, `{"a": 1}`, false},
		{` 5 `, `5`, false},
		{`false`, `false`, false},
		{`null`, `null`, false},
		{`[1]`, "", true},
		{`{}`, "", true},
		{`"nope"`, "", true},
		{``, "", true},
	}

	for _, tt := range tests {
		got, err := DecodeEmbedded(tt.embedded)
		if tt.wantErr {
			assert.Error(t, err, "embedded %q", tt.embedded)
			continue
		}
		require.NoError(t, err, "embedded %q", tt.embedded)
		assert.Equal(t, tt.want, string(got), "embedded %q", tt.embedded)
	}
}

func TestCopyLink_AlwaysReportsSuccess(t *testing.T) {
	c := newController(&fakeSaver{}, &session.State{})
	p := view.NewPage()
	p.RevealShareLink("http://localhost:8000/shared/abc/")

	clip := &fakeClipboard{err: errors.New("no clipboard utility")}
	c.CopyLink(p, clip)

	assert.Equal(t, "http://localhost:8000/shared/abc/", clip.text)
	assert.Equal(t, view.Status{Text: CopiedMessage}, p.Status)
}

func TestEncodeEmbedded(t *testing.T) {
	_, err := EncodeEmbedded([]byte("{"))
	assert.Error(t, err)

	embedded, err := EncodeEmbedded([]byte(`{"a":"<b>"}`))
	require.NoError(t, err)
	var outer string
	require.NoError(t, json.Unmarshal([]byte(embedded), &outer))
	assert.Equal(t, `{"a":"<b>"}`, outer)
}

// sharingBackend persists records and serves them back as shared pages
type sharingBackend struct {
	mu      sync.Mutex
	records map[string]model.SharedResultRecord
}

func (b *sharingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/api/save-shared-result/" && r.Method == http.MethodPost:
		var rec model.SharedResultRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id := fmt.Sprintf("r%d", len(b.records)+1)
		b.records[id] = rec
		_, _ = fmt.Fprintf(w, `{"success": true, "message": "Result saved successfully", "shared_url": "/shared/%s/"}`, id)
	case strings.HasPrefix(r.URL.Path, "/shared/"):
		rec, ok := b.records[strings.Trim(strings.TrimPrefix(r.URL.Path, "/shared/"), "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// The backend stores result_data as a JSON string and embeds it serialized again
		embedded, _ := EncodeEmbedded(rec.ResultData)
		_, _ = fmt.Fprintf(w, `<form data-is-authenticated="false"></form>
<div id="results-container" data-is-shared-view="true" data-shared-result="%s" data-shared-query="%s"></div>`,
			html.EscapeString(embedded), html.EscapeString(rec.Query))
	default:
		http.NotFound(w, r)
	}
}

func TestShareRestoreRoundTrip(t *testing.T) {
	server := httptest.NewServer(&sharingBackend{records: map[string]model.SharedResultRecord{}})
	defer server.Close()

	cfg := model.DefaultConfig().Backend
	cfg.BaseURL = server.URL
	client, err := backend.NewClient(cfg, backend.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)

	payload := `{"analyses": [
		{"claim": "Sky is blue", "label": "true", "justification": "Rayleigh \"scattering\" & <b>optics</b>",
		 "evidence": [{"name": "wikipedia", "result": {"extract": "blue sky"}}]},
		{"claim": "Grass is red", "label": "false"}
	], "final_label": "false", "final_justification": "One claim is false"}`

	// Original render
	st := &session.State{}
	original := view.NewPage()
	view.NewRenderer(view.Builder{}, st).Render(original, result.Classify([]byte(payload)), "colours")

	c := NewController(client, view.NewRenderer(view.Builder{}, st), st, backend.Auth{}, server.URL, nil)
	require.NoError(t, c.Share(context.Background(), original, true))
	require.True(t, original.ShareLinkVisible)

	// Reload the shared link
	body, err := client.FetchPage(context.Background(), backend.Auth{}, original.ShareLink)
	require.NoError(t, err)
	attrs, err := page.Extract(bytes.NewReader(body))
	require.NoError(t, err)

	restoredState := &session.State{}
	restored := view.NewPage()
	rc := NewController(client, view.NewRenderer(view.Builder{}, restoredState), restoredState, backend.Auth{}, server.URL, nil)
	require.NoError(t, rc.Restore(restored, attrs))

	want, err := view.RenderHTML(original.Results)
	require.NoError(t, err)
	got, err := view.RenderHTML(restored.Results)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "colours", restored.QueryInput)
}
