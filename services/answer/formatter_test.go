package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGenerated(t *testing.T) {
	blocks := []ContextBlock{
		{Reference: "Code pénal - Article 505", Content: "Quiconque soustrait frauduleusement une chose appartenant à autrui est coupable de vol."},
		{Reference: "Code pénal - Article 506", Content: "Le vol est puni de l'emprisonnement d'un à cinq ans."},
	}

	out := FormatGenerated("Le vol est puni d'un à cinq ans d'emprisonnement.", blocks)

	assert.Contains(t, out, "**Réponse juridique :**")
	assert.Contains(t, out, "Le vol est puni d'un à cinq ans d'emprisonnement.")
	assert.Contains(t, out, "**Références légales :**")
	assert.Contains(t, out, "**1. Code pénal - Article 505**")
	assert.Contains(t, out, "**2. Code pénal - Article 506**")
	assert.Contains(t, out, "_Source : Base de données juridique marocaine_")
}

func TestFormatGeneratedCapsReferences(t *testing.T) {
	blocks := []ContextBlock{
		{Reference: "Ref 1", Content: "a"},
		{Reference: "Ref 2", Content: "b"},
		{Reference: "Ref 3", Content: "c"},
		{Reference: "Ref 4", Content: "d"},
	}

	out := FormatGenerated("réponse", blocks)

	assert.Contains(t, out, "**3. Ref 3**")
	assert.NotContains(t, out, "Ref 4")
}

func TestReferenceTruncation(t *testing.T) {
	// 300 accented runes: truncation must count runes, not bytes, or the cut
	// could land inside a UTF-8 sequence.
	long := strings.Repeat("é", 300)
	blocks := []ContextBlock{{Reference: "Ref", Content: long}}

	out := FormatGenerated("réponse", blocks)

	assert.Contains(t, out, strings.Repeat("é", 250)+"...")
	assert.NotContains(t, out, strings.Repeat("é", 251))
}

func TestFormatExtractive(t *testing.T) {
	blocks := []ContextBlock{
		{Reference: "Code pénal - Article 505", Content: "Quiconque soustrait frauduleusement une chose appartenant à autrui est coupable de vol."},
	}

	out := FormatExtractive("Quelle est la peine pour vol ?", blocks)

	assert.Contains(t, out, FallbackIntro)
	assert.Contains(t, out, "**Quelle est la peine pour vol ?**")
	assert.Contains(t, out, "**1. Code pénal - Article 505**")
	assert.Contains(t, out, "consulter un avocat")
}

func TestFormattersNeverReturnEmpty(t *testing.T) {
	assert.NotEmpty(t, FormatGenerated("", nil))
	assert.NotEmpty(t, FormatExtractive("", nil))
	assert.NotEmpty(t, CapabilityMessage())
}

func TestCapabilityMessage(t *testing.T) {
	out := CapabilityMessage()

	assert.Contains(t, out, "**Aucune réponse générée**")
	assert.Contains(t, out, "Reformulez votre question")
}
