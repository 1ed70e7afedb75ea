package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaraLat04/Assistant-Juridique/models"
)

func TestBuildContext(t *testing.T) {
	t.Run("renders blocks in rank order", func(t *testing.T) {
		relevant := []models.Match{
			{
				Chunk: models.Chunk{
					Text: "  Quiconque soustrait frauduleusement une chose appartenant à autrui est coupable de vol.  ",
					Metadata: models.ChunkMetadata{
						DocumentName: "Code pénal",
						ArticleLabel: "Article 505",
					},
				},
				Distance: 0.1,
			},
			{
				Chunk: models.Chunk{
					Text: "Le vol est puni de l'emprisonnement d'un à cinq ans.",
					Metadata: models.ChunkMetadata{
						DocumentName: "Code pénal",
						ArticleLabel: "Article 506",
					},
				},
				Distance: 0.2,
			},
		}

		text, blocks := BuildContext(relevant)

		require.Len(t, blocks, 2)
		assert.Equal(t, "Code pénal - Article 505", blocks[0].Reference)
		assert.Equal(t, "Code pénal - Article 506", blocks[1].Reference)
		// Leading and trailing whitespace around the chunk text is trimmed.
		assert.Equal(t, "Quiconque soustrait frauduleusement une chose appartenant à autrui est coupable de vol.", blocks[0].Content)

		// The context lists each reference immediately before its text,
		// first-ranked first.
		idx505 := strings.Index(text, "Article 505")
		idx506 := strings.Index(text, "Article 506")
		require.GreaterOrEqual(t, idx505, 0)
		require.GreaterOrEqual(t, idx506, 0)
		assert.Less(t, idx505, idx506)
	})

	t.Run("missing metadata falls back to placeholders", func(t *testing.T) {
		relevant := []models.Match{
			{Chunk: models.Chunk{Text: "Texte sans provenance."}},
		}

		_, blocks := BuildContext(relevant)

		require.Len(t, blocks, 1)
		assert.Equal(t, "Document inconnu - Article sans titre", blocks[0].Reference)
	})

	t.Run("source file stands in for a missing document name", func(t *testing.T) {
		relevant := []models.Match{
			{
				Chunk: models.Chunk{
					Text: "Texte.",
					Metadata: models.ChunkMetadata{
						SourceFile:   "code_penal.csv",
						ArticleLabel: "Article 1",
					},
				},
			},
		}

		_, blocks := BuildContext(relevant)

		require.Len(t, blocks, 1)
		assert.Equal(t, "code_penal.csv - Article 1", blocks[0].Reference)
	})

	t.Run("empty input yields empty context", func(t *testing.T) {
		text, blocks := BuildContext(nil)

		assert.Empty(t, text)
		assert.Nil(t, blocks)
	})
}
