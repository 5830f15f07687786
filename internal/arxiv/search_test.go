// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/consensusmind/pkg/types"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"blockchain consensus", "all:blockchain AND all:consensus"},
		{"  raft  ", "all:raft"},
		{"ti:consensus", "ti:consensus"},
		{"au:lamport AND ti:paxos", "au:lamport AND ti:paxos"},
		{"cat:cs.DC", "cat:cs.DC"},
		{"byzantine OR crash", "byzantine OR crash"},
		{"(ti:raft)", "(ti:raft)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.in))
		})
	}
}

func TestSearchParsesFeed(t *testing.T) {
	srv := staticFeed(t, feedXML(1, 0, entryXML("2301.07041", "Practical\n      Byzantine Consensus")))
	c := newTestClient(t, srv.URL)

	papers, err := c.Search(t.Context(), "consensus", 10, 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)

	p := papers[0]
	assert.Equal(t, "2301.07041", p.ID)
	assert.Equal(t, "v1", p.Version)
	assert.Equal(t, "Practical Byzantine Consensus", p.Title)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, p.Authors)
	assert.Equal(t, "An abstract spanning lines.", p.Abstract)
	assert.Equal(t, "http://arxiv.org/pdf/2301.07041v1", p.PDFURL)
	assert.Equal(t, "http://arxiv.org/abs/2301.07041v1", p.AbsURL)
	assert.Equal(t, "cs.DC", p.PrimaryCategory)
	assert.Equal(t, []string{"cs.DC", "cs.CR"}, p.Categories)
	assert.Equal(t, "12 pages", p.Comment)
	assert.Equal(t, time.Date(2023, 1, 17, 18, 0, 0, 0, time.UTC), p.Published)
	assert.Equal(t, time.Date(2023, 1, 18, 10, 0, 0, 0, time.UTC), p.Updated)
}

func TestSearchBlockchainConsensus(t *testing.T) {
	var got map[string]string
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"search_query": q.Get("search_query"),
			"start":        q.Get("start"),
			"max_results":  q.Get("max_results"),
			"sortBy":       q.Get("sortBy"),
			"sortOrder":    q.Get("sortOrder"),
		}
		var entries []string
		for i := range 7 {
			entries = append(entries, entryXML(fmt.Sprintf("2301.0700%d", i), fmt.Sprintf("Paper %d", i)))
		}
		fmt.Fprint(w, feedXML(120, 0, entries...))
	})
	c := newTestClient(t, srv.URL)

	papers, err := c.Search(t.Context(), "blockchain consensus", 5, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(papers), 5)
	for _, p := range papers {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.PDFURL)
	}

	assert.Equal(t, "all:blockchain AND all:consensus", got["search_query"])
	assert.Equal(t, "0", got["start"])
	assert.Equal(t, "5", got["max_results"])
	assert.Equal(t, "relevance", got["sortBy"])
	assert.Equal(t, "descending", got["sortOrder"])
}

func TestSearchCustomSortAndOffset(t *testing.T) {
	var sortBy, sortOrder, start string
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		sortBy = r.URL.Query().Get("sortBy")
		sortOrder = r.URL.Query().Get("sortOrder")
		start = r.URL.Query().Get("start")
		fmt.Fprint(w, feedXML(0, 40))
	})
	c := newTestClient(t, srv.URL, WithSort(SortSubmitted, SortAscending))

	_, err := c.Search(t.Context(), "raft", 20, 40)
	require.NoError(t, err)
	assert.Equal(t, "submittedDate", sortBy)
	assert.Equal(t, "ascending", sortOrder)
	assert.Equal(t, "40", start)
}

func TestSearchClampsMaxResults(t *testing.T) {
	var maxResults string
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		maxResults = r.URL.Query().Get("max_results")
		fmt.Fprint(w, feedXML(0, 0))
	})
	c := newTestClient(t, srv.URL)

	_, err := c.Search(t.Context(), "raft", 50000, 0)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(MaxPageSize), maxResults)
}

func TestSearchEmptyResults(t *testing.T) {
	srv := staticFeed(t, feedXML(0, 0))
	c := newTestClient(t, srv.URL)

	papers, err := c.Search(t.Context(), "zzzzqqqq", 5, 0)
	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

func TestSearchDropsMalformedEntries(t *testing.T) {
	noTitle := `  <entry>
    <id>http://arxiv.org/abs/2301.99999v1</id>
    <title>   </title>
    <link title="pdf" href="http://arxiv.org/pdf/2301.99999v1" rel="related" type="application/pdf"/>
  </entry>`
	noID := `  <entry>
    <title>Orphan entry</title>
  </entry>`
	srv := staticFeed(t, feedXML(3, 0, entryXML("2301.07041", "Good paper"), noTitle, noID))
	c := newTestClient(t, srv.URL)

	page, err := c.SearchPage(t.Context(), "consensus", 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Papers, 1)
	assert.Equal(t, "2301.07041", page.Papers[0].ID)
	assert.Equal(t, 2, page.Dropped)
	assert.Equal(t, 3, page.Received())
	assert.Equal(t, 3, page.TotalResults)
	for _, p := range page.Papers {
		assert.True(t, p.Complete())
	}
}

func TestSearchStrictFeedRejectsMalformedEntry(t *testing.T) {
	noTitle := `<entry><id>http://arxiv.org/abs/2301.99999v1</id></entry>`
	srv := staticFeed(t, feedXML(2, 0, entryXML("2301.07041", "Good paper"), noTitle))
	c := newTestClient(t, srv.URL, WithStrictFeed())

	papers, err := c.Search(t.Context(), "consensus", 10, 0)
	require.Error(t, err)
	assert.Nil(t, papers)
	assert.ErrorIs(t, err, types.ErrProtocol)
	assert.Contains(t, err.Error(), "feed entry 1")
}

func TestSearchPDFURLFallback(t *testing.T) {
	noPDFLink := `<entry>
    <id>http://arxiv.org/abs/hep-th/9901001v2</id>
    <title>Old style</title>
  </entry>`
	srv := staticFeed(t, feedXML(1, 0, noPDFLink))
	c := newTestClient(t, srv.URL, WithPDFBaseURL("https://mirror.example.org/pdf/"))

	papers, err := c.Search(t.Context(), "strings", 1, 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "hep-th/9901001", papers[0].ID)
	assert.Equal(t, "https://mirror.example.org/pdf/hep-th/9901001v2", papers[0].PDFURL)
}

func TestSearchTruncatesOversizedPage(t *testing.T) {
	srv := staticFeed(t, feedXML(3, 0,
		entryXML("2301.00001", "One"),
		entryXML("2301.00002", "Two"),
		entryXML("2301.00003", "Three")))
	c := newTestClient(t, srv.URL)

	papers, err := c.Search(t.Context(), "consensus", 2, 0)
	require.NoError(t, err)
	assert.Len(t, papers, 2)
}

func TestSearchValidation(t *testing.T) {
	var calls atomic.Int32
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, feedXML(0, 0))
	})
	c := newTestClient(t, srv.URL)

	tests := []struct {
		name       string
		query      string
		maxResults int
		offset     int
		field      string
	}{
		{"blank query", "   ", 5, 0, "query"},
		{"zero max", "raft", 0, 0, "max_results"},
		{"negative max", "raft", -1, 0, "max_results"},
		{"negative offset", "raft", 5, -3, "offset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Search(t.Context(), tt.query, tt.maxResults, tt.offset)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrValidation)
			var fe *types.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
	assert.Zero(t, calls.Load(), "validation must happen before any request")
}

func TestSearchHTTPError(t *testing.T) {
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusServiceUnavailable)
	})
	c := newTestClient(t, srv.URL)

	papers, err := c.Search(t.Context(), "consensus", 5, 0)
	require.Error(t, err)
	assert.Nil(t, papers)
	assert.ErrorIs(t, err, types.ErrTransport)

	var se *types.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.True(t, se.Temporary())
}

func TestSearchMalformedXML(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated", `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><entry>`},
		{"not xml", `{"results": []}`},
		{"wrong root", `<?xml version="1.0"?><html><body>maintenance</body></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := staticFeed(t, tt.body)
			c := newTestClient(t, srv.URL)

			_, err := c.Search(t.Context(), "consensus", 5, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrProtocol)
			assert.NotErrorIs(t, err, types.ErrTransport)
		})
	}
}

func TestSearchAPIErrorEntry(t *testing.T) {
	errEntry := `<entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_1234</id>
    <title>Error</title>
    <summary>incorrect id format for 1234</summary>
  </entry>`
	srv := staticFeed(t, feedXML(1, 0, errEntry))
	c := newTestClient(t, srv.URL)

	_, err := c.Search(t.Context(), "id:1234", 5, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrProtocol)
	assert.Contains(t, err.Error(), "incorrect id format for 1234")
}

func TestSearchTimeout(t *testing.T) {
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	c := newTestClient(t, srv.URL, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.Search(t.Context(), "consensus", 5, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.ErrorIs(t, err, types.ErrTimeout)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSearchCancelled(t *testing.T) {
	srv := staticFeed(t, feedXML(0, 0))
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := c.Search(ctx, "consensus", 5, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

// pagingServer serves total synthetic entries, honoring start and
// max_results like the real API.
func pagingServer(t *testing.T, total int, requests *atomic.Int32) *Client {
	t.Helper()
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		n, _ := strconv.Atoi(r.URL.Query().Get("max_results"))
		var entries []string
		for i := start; i < total && i < start+n; i++ {
			entries = append(entries, entryXML(fmt.Sprintf("2302.%05d", i), fmt.Sprintf("Paper %d", i)))
		}
		fmt.Fprint(w, feedXML(total, start, entries...))
	})
	return newTestClient(t, srv.URL)
}

func TestSearchAllStopsOnShortPage(t *testing.T) {
	var requests atomic.Int32
	c := pagingServer(t, 5, &requests)

	papers, err := c.SearchAll(t.Context(), "consensus", 10, 2)
	require.NoError(t, err)
	assert.Len(t, papers, 5)
	assert.Equal(t, int32(3), requests.Load())
	assert.Equal(t, "2302.00000", papers[0].ID)
	assert.Equal(t, "2302.00004", papers[4].ID)
}

func TestSearchAllStopsAtLimit(t *testing.T) {
	var requests atomic.Int32
	c := pagingServer(t, 100, &requests)

	papers, err := c.SearchAll(t.Context(), "consensus", 7, 3)
	require.NoError(t, err)
	assert.Len(t, papers, 7)
	assert.Equal(t, int32(3), requests.Load())
}

func TestSearchAllStopsAtTotal(t *testing.T) {
	var requests atomic.Int32
	c := pagingServer(t, 4, &requests)

	papers, err := c.SearchAll(t.Context(), "consensus", 10, 2)
	require.NoError(t, err)
	assert.Len(t, papers, 4)
	assert.Equal(t, int32(2), requests.Load())
}

func TestSearchAllDeduplicates(t *testing.T) {
	var requests atomic.Int32
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if n == 1 {
			fmt.Fprint(w, feedXML(4, 0, entryXML("2301.00001", "A"), entryXML("2301.00002", "B")))
			return
		}
		fmt.Fprint(w, feedXML(4, 2, entryXML("2301.00002", "B"), entryXML("2301.00003", "C")))
	})
	c := newTestClient(t, srv.URL)

	papers, err := c.SearchAll(t.Context(), "consensus", 10, 2)
	require.NoError(t, err)
	ids := make([]string, len(papers))
	for i, p := range papers {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"2301.00001", "2301.00002", "2301.00003"}, ids)
}

func TestSearchAllStopsWithoutProgress(t *testing.T) {
	var requests atomic.Int32
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, feedXML(0, 0, entryXML("2301.00001", "A"), entryXML("2301.00002", "B")))
	})
	c := newTestClient(t, srv.URL)

	papers, err := c.SearchAll(t.Context(), "consensus", 10, 2)
	require.NoError(t, err)
	assert.Len(t, papers, 2)
	assert.Equal(t, int32(2), requests.Load())
}

func TestSearchAllPageDelayHonorsCancel(t *testing.T) {
	var requests atomic.Int32
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, feedXML(100, 0, entryXML("2301.00001", "A"), entryXML("2301.00002", "B")))
	})
	c := newTestClient(t, srv.URL, WithPageDelay(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()
	_, err := c.SearchAll(ctx, "consensus", 10, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.Equal(t, int32(1), requests.Load())
}

func TestSearchAllValidation(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	_, err := c.SearchAll(t.Context(), "consensus", 0, 10)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = c.SearchAll(t.Context(), "consensus", 10, MaxPageSize+1)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestFetchByID(t *testing.T) {
	var idList string
	srv := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		idList = r.URL.Query().Get("id_list")
		fmt.Fprint(w, feedXML(2, 0, entryXML("2301.07041", "First"), entryXML("1706.03762", "Second")))
	})
	c := newTestClient(t, srv.URL)

	papers, err := c.FetchByID(t.Context(), "arXiv:2301.07041", "https://arxiv.org/abs/1706.03762v5")
	require.NoError(t, err)
	assert.Len(t, papers, 2)
	assert.Equal(t, "2301.07041,1706.03762v5", idList)
}

func TestFetchByIDValidation(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	_, err := c.FetchByID(t.Context())
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = c.FetchByID(t.Context(), "2301.07041", "bogus")
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "bogus")
}
