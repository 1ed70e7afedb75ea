package retrieval

import (
	"strings"

	"github.com/SaraLat04/Assistant-Juridique/models"
	"github.com/SaraLat04/Assistant-Juridique/services/answer"
)

// Placeholders used when chunk metadata is absent or blank.
const (
	unknownDocument = "Document inconnu"
	unknownArticle  = "Article sans titre"
)

// BuildContext turns the retained matches into the textual context handed to
// the grounded cascade, plus the (reference, content) blocks reused for
// citations. Each match becomes a two-line block: a reference line built from
// the document name and article label, then the trimmed chunk text. Blocks are
// concatenated in rank order, separated by a blank line; there is no
// deduplication, re-ranking, or truncation here.
func BuildContext(relevant []models.Match) (string, []answer.ContextBlock) {
	if len(relevant) == 0 {
		return "", nil
	}

	blocks := make([]answer.ContextBlock, 0, len(relevant))
	var b strings.Builder

	for i, m := range relevant {
		ref := referenceLine(m.Chunk.Metadata)
		content := strings.TrimSpace(m.Chunk.Text)

		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ref)
		b.WriteString("\n")
		b.WriteString(content)
		b.WriteString("\n")

		blocks = append(blocks, answer.ContextBlock{Reference: ref, Content: content})
	}

	return b.String(), blocks
}

func referenceLine(meta models.ChunkMetadata) string {
	doc := strings.TrimSpace(meta.DocumentName)
	if doc == "" {
		doc = strings.TrimSpace(meta.SourceFile)
	}
	if doc == "" {
		doc = unknownDocument
	}

	article := strings.TrimSpace(meta.ArticleLabel)
	if article == "" {
		article = unknownArticle
	}

	return doc + " - " + article
}
