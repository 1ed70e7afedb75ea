package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/models"
)

const testCollectionID = "6f1c2a34-aaaa-bbbb-cccc-000000000001"

// chromaFixture serves the collection-resolution call plus a scripted handler
// for everything after it.
func chromaFixture(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/collections" {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "lois_maroc", req["name"])
			assert.Equal(t, true, req["get_or_create"])

			_ = json.NewEncoder(w).Encode(map[string]string{
				"id":   testCollectionID,
				"name": "lois_maroc",
			})
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), srv.URL, "lois_maroc", zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestClientQuery(t *testing.T) {
	t.Run("decodes parallel arrays into matches", func(t *testing.T) {
		client := chromaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/collections/"+testCollectionID+"/query", r.URL.Path)

			var req queryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"vol"}, req.QueryTexts)
			assert.Equal(t, 3, req.NResults)

			_ = json.NewEncoder(w).Encode(queryResponse{
				IDs:       [][]string{{"cp-505", "cp-506"}},
				Documents: [][]string{{"Quiconque soustrait...", "Le vol est puni..."}},
				Metadatas: [][]map[string]any{{
					{"doc": "Code pénal", "article": "Article 505", "chunk_id": float64(12)},
					{"source": "code_penal.csv", "article": "Article 506"},
				}},
				Distances: [][]float64{{0.15, 0.85}},
			})
		})

		matches, err := client.Query(context.Background(), "vol", 3)

		require.NoError(t, err)
		require.Len(t, matches, 2)

		assert.Equal(t, "cp-505", matches[0].Chunk.ID)
		assert.Equal(t, "Code pénal", matches[0].Chunk.Metadata.DocumentName)
		assert.Equal(t, 12, matches[0].Chunk.Metadata.ChunkIndex)
		assert.InDelta(t, 0.15, matches[0].Distance, 1e-9)

		// With no doc key, the source file stands in as the document name.
		assert.Equal(t, "code_penal.csv", matches[1].Chunk.Metadata.DocumentName)
		assert.InDelta(t, 0.85, matches[1].Distance, 1e-9)
	})

	t.Run("empty result set", func(t *testing.T) {
		client := chromaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(queryResponse{})
		})

		matches, err := client.Query(context.Background(), "vol", 3)

		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("server error is propagated", func(t *testing.T) {
		client := chromaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		})

		_, err := client.Query(context.Background(), "vol", 3)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chroma query failed")
	})
}

func TestClientAdd(t *testing.T) {
	var gotReq addRequest
	client := chromaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/"+testCollectionID+"/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusCreated)
	})

	chunks := []models.Chunk{
		{
			ID:   "cp-505",
			Text: "Quiconque soustrait...",
			Metadata: models.ChunkMetadata{
				DocumentName: "Code pénal",
				ArticleLabel: "Article 505",
				ChunkIndex:   12,
				SourceFile:   "code_penal.csv",
			},
		},
	}

	require.NoError(t, client.Add(context.Background(), chunks))

	require.Len(t, gotReq.IDs, 1)
	assert.Equal(t, "cp-505", gotReq.IDs[0])
	assert.Equal(t, "Code pénal", gotReq.Metadatas[0]["doc"])
	assert.Equal(t, "Article 505", gotReq.Metadatas[0]["article"])
}

func TestClientAddEmptyIsNoop(t *testing.T) {
	client := chromaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty batch")
	})

	require.NoError(t, client.Add(context.Background(), nil))
}

func TestClientCount(t *testing.T) {
	client := chromaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/"+testCollectionID+"/count", r.URL.Path)
		_, _ = w.Write([]byte("1542"))
	})

	n, err := client.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1542, n)
}

func TestNewClientFailsWhenServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(context.Background(), srv.URL, "lois_maroc", zap.NewNop())

	require.Error(t, err)
}
