package answer

import (
	"fmt"
	"strings"
)

// ContextBlock is one citable unit of assembled context: the reference line
// shown to the reader and the underlying chunk text.
type ContextBlock struct {
	Reference string
	Content   string
}

const (
	// maxReferences bounds the references section of any answer.
	maxReferences = 3

	// maxReferenceChars is the truncation point for a reference's content.
	maxReferenceChars = 250
)

// FallbackIntro opens the extractive fallback answer. Tests and the
// orchestrator rely on its presence to recognize the fallback path.
const FallbackIntro = "D'après la législation marocaine, concernant votre question sur"

// FormatGenerated wraps a model-generated answer in the response template and
// appends up to three references from the grounding context.
func FormatGenerated(generated string, blocks []ContextBlock) string {
	var b strings.Builder

	b.WriteString("**Réponse juridique :**\n\n")
	b.WriteString(strings.TrimSpace(generated))
	b.WriteString("\n\n---\n\n")
	writeReferences(&b, blocks)
	b.WriteString("\n---\n_Source : Base de données juridique marocaine_")

	return b.String()
}

// FormatExtractive synthesizes an answer from the retrieved text alone, used
// when every generation backend failed but relevant chunks exist. The result
// contains no model-generated prose.
func FormatExtractive(question string, blocks []ContextBlock) string {
	var b strings.Builder

	b.WriteString("**Réponse juridique :**\n\n")
	fmt.Fprintf(&b, "%s **%s**, voici les dispositions pertinentes :\n\n", FallbackIntro, strings.TrimSpace(question))
	writeReferences(&b, blocks)
	b.WriteString("\n---\n")
	b.WriteString("**Remarque :** Cette réponse est basée sur les textes juridiques en vigueur. ")
	b.WriteString("Pour une interprétation détaillée de votre situation, il est conseillé de consulter un avocat.\n\n")
	b.WriteString("_Source : Base de données juridique marocaine_")

	return b.String()
}

// CapabilityMessage is the fixed answer for an ungrounded question when the
// general cascade is also exhausted. The formatter never returns an empty
// string, whatever the inputs.
func CapabilityMessage() string {
	return `**Aucune réponse générée**

Votre question ne correspond pas aux documents juridiques disponibles et les services de génération sont temporairement indisponibles.

**Je peux vous aider avec :**
- Questions sur le droit marocain (codes pénal, civil, travail, etc.)
- Explications juridiques
- Interprétation d'articles de loi

**Suggestions :**
- Reformulez votre question de manière plus précise
- Utilisez des termes juridiques (ex: "vol", "divorce", "contrat", "héritage")

_Assistant Juridique Marocain_`
}

// writeReferences renders the numbered references section, at most
// maxReferences entries, each content truncated at maxReferenceChars.
func writeReferences(b *strings.Builder, blocks []ContextBlock) {
	b.WriteString("**Références légales :**\n")

	n := len(blocks)
	if n > maxReferences {
		n = maxReferences
	}
	for i := 0; i < n; i++ {
		content := strings.TrimSpace(blocks[i].Content)
		if runes := []rune(content); len(runes) > maxReferenceChars {
			content = string(runes[:maxReferenceChars]) + "..."
		}
		fmt.Fprintf(b, "\n**%d. %s**\n> %s\n", i+1, blocks[i].Reference, content)
	}
}
