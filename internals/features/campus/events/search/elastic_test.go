package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents_backend/internals/features/campus/events/model"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

// fakeES answers like an Elasticsearch node; responses are keyed by "METHOD path".
func fakeES(t *testing.T, responses map[string]struct {
	Status int
	Body   string
}) (*ElasticIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recorded{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		resp, ok := responses[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write([]byte(resp.Body))
	}))
	t.Cleanup(srv.Close)

	idx, err := NewElasticIndex(srv.URL, "campus-events")
	require.NoError(t, err)
	return idx, &seen
}

func TestSearch_BuildsFilteredQueryAndParsesHits(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	idx, seen := fakeES(t, map[string]struct {
		Status int
		Body   string
	}{
		"POST /campus-events/_search": {http.StatusOK, `{"hits":{"total":{"value":2},"hits":[{"_id":"` + b.String() + `"},{"_id":"junk"},{"_id":"` + a.String() + `"}]}}`},
	})

	college := uuid.New()
	hits, err := idx.Search(context.Background(), Query{CollegeID: college, Text: "hackathon", PublishedOnly: true, From: 10, Size: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Total)
	assert.Equal(t, []uuid.UUID{b, a}, hits.IDs)

	require.Len(t, *seen, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*seen)[0].Body), &body))
	assert.EqualValues(t, 10, body["from"])
	assert.EqualValues(t, 5, body["size"])

	boolQ := body["query"].(map[string]any)["bool"].(map[string]any)
	filter := boolQ["filter"].([]any)
	require.Len(t, filter, 2)
	assert.Equal(t, college.String(), filter[0].(map[string]any)["term"].(map[string]any)["college_id"])
	assert.Equal(t, true, filter[1].(map[string]any)["term"].(map[string]any)["is_published"])
	assert.Len(t, boolQ["must"], 1)
}

func TestSearch_ErrorStatus(t *testing.T) {
	idx, _ := fakeES(t, map[string]struct {
		Status int
		Body   string
	}{
		"POST /campus-events/_search": {http.StatusServiceUnavailable, `{"error":"down"}`},
	})
	_, err := idx.Search(context.Background(), Query{CollegeID: uuid.New()})
	assert.Error(t, err)
}

func TestUpsertAndDelete(t *testing.T) {
	id := uuid.New()
	idx, seen := fakeES(t, map[string]struct {
		Status int
		Body   string
	}{
		"DELETE /campus-events/_doc/" + id.String(): {http.StatusNotFound, `{"result":"not_found"}`},
	})

	desc := "24h build sprint"
	doc := BuildDocument(&model.EventModel{
		EventID: id, EventCollegeID: uuid.New(), EventClubID: uuid.New(),
		EventTitle: "Hack Night", EventDescription: &desc,
		EventStartsAt: time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC), EventIsPublished: true,
	})
	require.NoError(t, idx.Upsert(context.Background(), doc))
	// a missing document is already deleted
	require.NoError(t, idx.Delete(context.Background(), id))

	require.Len(t, *seen, 2)
	assert.Equal(t, "PUT", (*seen)[0].Method)
	assert.Equal(t, "/campus-events/_doc/"+id.String(), (*seen)[0].Path)
	assert.Contains(t, (*seen)[0].Body, `"title":"Hack Night"`)
	assert.Contains(t, (*seen)[0].Body, `"description":"24h build sprint"`)
	assert.Equal(t, "DELETE", (*seen)[1].Method)
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	idx, seen := fakeES(t, map[string]struct {
		Status int
		Body   string
	}{
		"HEAD /campus-events": {http.StatusNotFound, ``},
		"PUT /campus-events":  {http.StatusOK, `{"acknowledged":true}`},
	})
	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, *seen, 2)
	assert.Contains(t, (*seen)[1].Body, `"college_id":{"type":"keyword"}`)
}
