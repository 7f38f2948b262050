package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikey/conf-reminder/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const wikiPage1 = `<html><body>
<div class="contsec">
<table><tr><td>
  <table>
    <tr bgcolor="#bbbbbb"><td>Event</td><td>Where</td><td>When</td></tr>
    <tr>
      <td><a href="/cfp/servlet/event.showcfp?eventid=1" title="International Conference on Machine Learning">ICML 2024</a></td>
      <td>Vienna, Austria</td>
      <td>Jul 21, 2024 - Jul 27, 2024</td>
      <td>Feb 1, 2024</td>
    </tr>
    <tr>
      <td><a href="/cfp/servlet/event.showcfp?eventid=2">KDD 2024</a></td>
      <td>Barcelona, Spain</td>
      <td>Aug 25, 2024 - Aug 29, 2024</td>
      <td></td>
    </tr>
    <tr><td>no link</td><td>x</td><td>y</td><td>z</td></tr>
  </table>
</td></tr></table>
</div>
</body></html>`

const wikiPage2 = `<html><body>
<div class="contsec"><table><tr><td><table>
  <tr>
    <td><a href="/cfp/servlet/event.showcfp?eventid=3" title="Computer Vision and Pattern Recognition">CVPR 2024</a></td>
    <td>Seattle, WA</td>
    <td>Jun 17, 2024 - Jun 21, 2024</td>
    <td>Nov 17, 2023</td>
  </tr>
</table></td></tr></table></div>
</body></html>`

const ccfPage = `<html><body>
<table>
  <tr><th>#</th><th>Acronym</th><th>Name</th><th>Rank</th><th>Field</th><th>Deadlines</th></tr>
  <tr>
    <td>1</td>
    <td><a href="/conf/aaai">AAAI</a></td>
    <td>AAAI Conference on Artificial Intelligence</td>
    <td>A</td>
    <td>AI</td>
    <td>Abstract Deadline: Aug 8, 2024 AoE<br>Paper Submission Deadline: Aug 15, 2024 (AoE)<p>Notification Date: Dec 9, 2024</p></td>
  </tr>
  <tr>
    <td>2</td>
    <td><a href="https://example.org/ijcai">IJCAI</a></td>
    <td>International Joint Conference on Artificial Intelligence</td>
    <td>A</td>
    <td>AI</td>
    <td></td>
  </tr>
  <tr><td>short</td><td>row</td></tr>
</table>
</body></html>`

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{UserAgent: "conf-reminder-test", Timeout: 5 * time.Second}, zap.NewNop())
}

func TestWikiCFPSource_Fetch(t *testing.T) {
	var agent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.UserAgent())
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprint(w, wikiPage1)
		case "2":
			fmt.Fprint(w, wikiPage2)
		default:
			fmt.Fprint(w, `<html><body><div class="contsec"></div></body></html>`)
		}
	}))
	defer server.Close()

	src := NewWikiCFPSource(server.URL+"/cfp/call?conference=computer%20science", 5, newTestFetcher(), zap.NewNop())
	recs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "conf-reminder-test", agent.Load())

	icml := recs[0]
	assert.Equal(t, "ICML 2024", icml.Acronym)
	assert.Equal(t, "International Conference on Machine Learning", icml.FullName)
	assert.Equal(t, "Vienna, Austria", icml.Location)
	assert.Equal(t, "Jul 21, 2024 - Jul 27, 2024", icml.When)
	assert.Equal(t, "Submission Deadline: Feb 1, 2024", icml.DeadlineText)
	assert.Equal(t, server.URL+"/cfp/servlet/event.showcfp?eventid=1", icml.Link)
	assert.Equal(t, "wikicfp", icml.Source)

	kdd := recs[1]
	assert.Equal(t, "KDD 2024", kdd.FullName)
	assert.Empty(t, kdd.DeadlineText)

	assert.Equal(t, "CVPR 2024", recs[2].Acronym)
}

func TestWikiCFPSource_FirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := NewWikiCFPSource(server.URL+"/cfp/call", 2, newTestFetcher(), zap.NewNop())
	_, err := src.Fetch(context.Background())
	assert.ErrorContains(t, err, "unexpected status 503")
}

func TestWikiCFPSource_LaterPageFailureKeepsRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, wikiPage1)
	}))
	defer server.Close()

	src := NewWikiCFPSource(server.URL+"/cfp/call", 3, newTestFetcher(), zap.NewNop())
	recs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCCFSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ccfPage)
	}))
	defer server.Close()

	src := NewCCFSource(server.URL+"/", newTestFetcher(), zap.NewNop())
	recs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	aaai := recs[0]
	assert.Equal(t, "AAAI", aaai.Acronym)
	assert.Equal(t, "AAAI Conference on Artificial Intelligence", aaai.FullName)
	assert.Equal(t, "A", aaai.Rank)
	assert.Equal(t, server.URL+"/conf/aaai", aaai.Link)
	assert.Equal(t, "ccf", aaai.Source)
	assert.Equal(t,
		"Abstract Deadline: Aug 8, 2024 AoE\nPaper Submission Deadline: Aug 15, 2024 (AoE)\nNotification Date: Dec 9, 2024",
		aaai.DeadlineText)

	assert.Equal(t, "https://example.org/ijcai", recs[1].Link)
	assert.Empty(t, recs[1].DeadlineText)
}

func TestBlockText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="c">  a <b>bold</b><br/><br>  <div>b</div>c  </div>`))
	require.NoError(t, err)

	assert.Equal(t, "a bold\nb\nc", blockText(doc.Find("#c")))
}

func TestManualSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`conferences:
  - acronym: ICML
    full_name: International Conference on Machine Learning
    rank: A
    link: https://icml.cc
    deadlines: |
      Abstract Deadline: Jan 23, 2025 AoE
      Paper Submission Deadline: Jan 30, 2025 AoE
  - acronym: NeurIPS
    deadlines: "Submission Deadline: May 15, 2025 AoE"
`), 0o600))

	recs, err := NewManualSource(path, zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "ICML", recs[0].Acronym)
	assert.Equal(t, "A", recs[0].Rank)
	assert.Equal(t, "https://icml.cc", recs[0].Link)
	assert.Equal(t, "Abstract Deadline: Jan 23, 2025 AoE\nPaper Submission Deadline: Jan 30, 2025 AoE\n", recs[0].DeadlineText)
	assert.Equal(t, "manual", recs[0].Source)
	assert.Equal(t, "NeurIPS", recs[1].Acronym)
}

func TestManualSource_Errors(t *testing.T) {
	_, err := NewManualSource(filepath.Join(t.TempDir(), "missing.yaml"), zap.NewNop()).Fetch(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conferences: [unterminated"), 0o600))
	_, err = NewManualSource(path, zap.NewNop()).Fetch(context.Background())
	assert.ErrorContains(t, err, "failed to parse")
}

type stubSource struct {
	name  string
	recs  []core.RawConference
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) ([]core.RawConference, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.recs, s.err
}

func TestMultiSource_MergesInOrder(t *testing.T) {
	slow := &stubSource{
		name:  "first",
		delay: 20 * time.Millisecond,
		recs: []core.RawConference{
			{Acronym: "ICML", FullName: "from first"},
			{Acronym: "CVPR"},
		},
	}
	fast := &stubSource{
		name: "second",
		recs: []core.RawConference{
			{Acronym: "icml", FullName: "from second"},
			{Acronym: "AAAI"},
			{Acronym: "  "},
		},
	}
	broken := &stubSource{name: "broken", err: errors.New("down")}

	recs, err := NewMultiSource(zap.NewNop(), slow, fast, broken).Fetch(context.Background())
	require.NoError(t, err)

	var acronyms []string
	for _, rc := range recs {
		acronyms = append(acronyms, rc.Acronym)
	}
	assert.Equal(t, []string{"ICML", "CVPR", "AAAI"}, acronyms)
	assert.Equal(t, "from first", recs[0].FullName)
}

func TestMultiSource_AllFailed(t *testing.T) {
	m := NewMultiSource(zap.NewNop(),
		&stubSource{name: "a", err: errors.New("down")},
		&stubSource{name: "b", err: errors.New("also down")},
	)

	_, err := m.Fetch(context.Background())
	assert.ErrorContains(t, err, "all 2 conference sources failed")
}

func TestMultiSource_Empty(t *testing.T) {
	recs, err := NewMultiSource(zap.NewNop()).Fetch(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, recs)
}
