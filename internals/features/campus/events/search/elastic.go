package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campusevents_backend/internals/logger"
)

const indexMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"id":{"type":"keyword"},"college_id":{"type":"keyword"},"club_id":{"type":"keyword"},
	"title":{"type":"text"},"description":{"type":"text"},"venue":{"type":"text"},
	"starts_at":{"type":"date"},"is_published":{"type":"boolean"},"updated_at":{"type":"date"}
}}}`

type ElasticIndex struct {
	Client *es.Client
	Name   string
}

func NewElasticIndex(url, name string) (*ElasticIndex, error) {
	client, err := es.NewClient(es.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndex{Client: client, Name: name}, nil
}

// EnsureIndex creates the index with its mapping when missing.
func (x *ElasticIndex) EnsureIndex(ctx context.Context) error {
	exists, err := x.Client.Indices.Exists([]string{x.Name}, x.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", x.Name, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}
	res, err := x.Client.Indices.Create(x.Name,
		x.Client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		x.Client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index %s: %w", x.Name, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.Name, res.String())
	}
	logger.L().Info("search index created", zap.String("index", x.Name))
	return nil
}

func (x *ElasticIndex) Upsert(ctx context.Context, doc Document) error {
	body, err := sonic.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := x.Client.Index(x.Name, bytes.NewReader(body),
		x.Client.Index.WithDocumentID(doc.ID),
		x.Client.Index.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index event %s: %s", doc.ID, res.String())
	}
	return nil
}

func (x *ElasticIndex) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := x.Client.Delete(x.Name, id.String(), x.Client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete event %s: %s", id, res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (x *ElasticIndex) Search(ctx context.Context, q Query) (Hits, error) {
	body, err := sonic.Marshal(buildQuery(q))
	if err != nil {
		return Hits{}, err
	}
	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Name),
		x.Client.Search.WithBody(bytes.NewReader(body)),
		x.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return Hits{}, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return Hits{}, fmt.Errorf("search %s: %s", x.Name, res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return Hits{}, err
	}
	var sr searchResponse
	if err := sonic.Unmarshal(raw, &sr); err != nil {
		return Hits{}, fmt.Errorf("decode search response: %w", err)
	}
	out := Hits{Total: sr.Hits.Total.Value, IDs: make([]uuid.UUID, 0, len(sr.Hits.Hits))}
	for _, h := range sr.Hits.Hits {
		if id, err := uuid.Parse(h.ID); err == nil {
			out.IDs = append(out.IDs, id)
		}
	}
	return out, nil
}

func buildQuery(q Query) map[string]any {
	filter := []any{
		map[string]any{"term": map[string]any{"college_id": q.CollegeID.String()}},
	}
	if q.PublishedOnly {
		filter = append(filter, map[string]any{"term": map[string]any{"is_published": true}})
	}
	must := []any{}
	if t := strings.TrimSpace(q.Text); t != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":     t,
				"fields":    []string{"title^3", "description", "venue"},
				"fuzziness": "AUTO",
			},
		})
	}
	size := q.Size
	if size <= 0 {
		size = 20
	}
	return map[string]any{
		"from":  q.From,
		"size":  size,
		"query": map[string]any{"bool": map[string]any{"filter": filter, "must": must}},
		"sort":  []any{"_score", map[string]any{"starts_at": "asc"}},
	}
}

// Reindex bulk-loads docs, e.g. after the index was recreated.
func (x *ElasticIndex) Reindex(ctx context.Context, docs []Document) (int, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{Client: x.Client, Index: x.Name})
	if err != nil {
		return 0, err
	}
	for _, d := range docs {
		body, err := sonic.Marshal(d)
		if err != nil {
			return 0, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: d.ID,
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				msg := res.Error.Reason
				if err != nil {
					msg = err.Error()
				}
				logger.L().Warn("reindex item failed", zap.String("id", item.DocumentID), zap.String("reason", msg))
			},
		})
		if err != nil {
			return 0, err
		}
	}
	if err := bi.Close(ctx); err != nil {
		return 0, err
	}
	st := bi.Stats()
	if st.NumFailed > 0 {
		return int(st.NumIndexed), fmt.Errorf("reindex: %d documents failed", st.NumFailed)
	}
	return int(st.NumIndexed), nil
}
