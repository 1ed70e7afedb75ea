package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/models"
)

const defaultTimeout = 30 * time.Second

// Client talks to a Chroma server over its REST API. The collection is
// resolved once at construction; the server owns embedding computation, so
// queries and inserts carry plain text.
type Client struct {
	baseURL      string
	collection   string
	collectionID string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient resolves (or creates) the named collection and returns a client
// bound to it. The collection is created with cosine distance, matching the
// gate's cosine-normalized convention.
func NewClient(ctx context.Context, baseURL, collection string, logger *zap.Logger) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		collection: collection,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}

	id, err := c.getOrCreateCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve collection %q: %w", collection, err)
	}
	c.collectionID = id

	logger.Info("chroma collection resolved",
		zap.String("collection", collection),
		zap.String("collection_id", id))

	return c, nil
}

// Collection returns the collection name.
func (c *Client) Collection() string {
	return c.collection
}

// Query returns the top-k nearest chunks for a query text.
func (c *Client) Query(ctx context.Context, text string, topK int) ([]models.Match, error) {
	reqBody := queryRequest{
		QueryTexts: []string{text},
		NResults:   topK,
		Include:    []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	path := fmt.Sprintf("/api/v1/collections/%s/query", c.collectionID)
	if err := c.post(ctx, path, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("chroma query failed: %w", err)
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	ids := resp.IDs[0]
	docs := first(resp.Documents)
	metas := first(resp.Metadatas)
	dists := first(resp.Distances)

	matches := make([]models.Match, 0, len(ids))
	for i, id := range ids {
		m := models.Match{Chunk: models.Chunk{ID: id}}
		if i < len(docs) {
			m.Chunk.Text = docs[i]
		}
		if i < len(metas) {
			m.Chunk.Metadata = decodeMetadata(metas[i])
		}
		if i < len(dists) {
			m.Distance = dists[i]
		}
		matches = append(matches, m)
	}

	return matches, nil
}

// Add inserts chunks into the collection.
func (c *Client) Add(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	req := addRequest{
		IDs:       make([]string, len(chunks)),
		Documents: make([]string, len(chunks)),
		Metadatas: make([]map[string]any, len(chunks)),
	}
	for i, ch := range chunks {
		req.IDs[i] = ch.ID
		req.Documents[i] = ch.Text
		req.Metadatas[i] = encodeMetadata(ch.Metadata)
	}

	path := fmt.Sprintf("/api/v1/collections/%s/add", c.collectionID)
	if err := c.post(ctx, path, req, nil); err != nil {
		return fmt.Errorf("chroma add failed: %w", err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (c *Client) Count(ctx context.Context) (int, error) {
	path := fmt.Sprintf("/api/v1/collections/%s/count", c.collectionID)
	body, err := c.get(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("chroma count failed: %w", err)
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(body)))
	if err != nil {
		return 0, fmt.Errorf("chroma count returned unexpected body: %w", err)
	}
	return n, nil
}

func (c *Client) getOrCreateCollection(ctx context.Context) (string, error) {
	reqBody := map[string]any{
		"name":          c.collection,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
		"get_or_create": true,
	}

	var resp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.post(ctx, "/api/v1/collections", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("server returned no collection id")
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

// Chroma request/response types. Query results come back as one row of
// parallel arrays per query text.

type queryRequest struct {
	QueryTexts []string `json:"query_texts"`
	NResults   int      `json:"n_results"`
	Include    []string `json:"include"`
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

type addRequest struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

func first[T any](rows [][]T) []T {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// Metadata keys follow the ingested CSV columns.

func decodeMetadata(m map[string]any) models.ChunkMetadata {
	meta := models.ChunkMetadata{
		DocumentName: stringField(m, "doc"),
		ArticleLabel: stringField(m, "article"),
		PageRef:      stringField(m, "pages"),
		Title:        stringField(m, "titre"),
		SourceFile:   stringField(m, "source"),
	}
	if meta.DocumentName == "" {
		meta.DocumentName = meta.SourceFile
	}
	if v, ok := m["chunk_id"].(float64); ok {
		meta.ChunkIndex = int(v)
	}
	return meta
}

func encodeMetadata(meta models.ChunkMetadata) map[string]any {
	return map[string]any{
		"doc":      meta.DocumentName,
		"article":  meta.ArticleLabel,
		"pages":    meta.PageRef,
		"titre":    meta.Title,
		"chunk_id": meta.ChunkIndex,
		"source":   meta.SourceFile,
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
