package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/videohub/internal/config"
	"github.com/Skotchmaster/videohub/internal/models"
)

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error response: %s", body)
	}

	log.Println("connected to Elasticsearch")
	return client, nil
}

// VideoDoc is the indexed projection of a video.
type VideoDoc struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	OwnerID     uuid.UUID `json:"ownerId"`
}

// Index maintains and queries the video search index. A nil Index is a
// no-op for writes, so the backend runs without Elasticsearch.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	if es == nil {
		return nil
	}
	return &Index{ES: es, Name: name}
}

func (i *Index) IndexVideo(ctx context.Context, v *models.Video) error {
	if i == nil {
		return nil
	}

	doc := VideoDoc{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		OwnerID:     v.OwnerID,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := i.ES.Index(
		i.Name,
		bytes.NewReader(data),
		i.ES.Index.WithDocumentID(v.ID.String()),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index video: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	if i == nil {
		return nil
	}

	res, err := i.ES.Delete(i.Name, id.String(), i.ES.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// A 404 from the index is fine; the document may have never been indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete video from index: %s", res.Status())
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []VideoDoc, error) {
	if i == nil {
		return 0, nil, fmt.Errorf("search is not configured")
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s", strings.TrimSpace(string(body)))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source VideoDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]VideoDoc, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		docs[n] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
