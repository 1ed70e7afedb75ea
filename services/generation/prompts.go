package generation

import "fmt"

// Prompts for the two cascade flavors. The grounded prompt constrains the
// answer to the supplied legal context and forbids inline article citations,
// since references are appended mechanically by the formatter afterwards.

const groundedSystemPrompt = "Tu es un assistant juridique marocain expert."

const generalSystemPrompt = "Tu es un assistant conversationnel utile et amical. " +
	"Réponds en français de manière claire et concise."

func groundedUserPrompt(question, contextText string) string {
	return fmt.Sprintf(`Tu es un assistant juridique marocain expert, capable d'expliquer clairement les lois et leurs implications.

Contexte :
%s

Question :
%s

Réponds en français clair et naturel comme un avocat qui conseille un client :
- Donne une explication simple et structurée (150 à 250 mots)
- Mentionne les principes généraux du droit marocain
- Ne cite pas les numéros d'articles (ils seront ajoutés après)
- Termine par une phrase de conseil pratique
`, contextText, question)
}

// instPrompt wraps a prompt in the [INST] format expected by the Hugging Face
// instruct models.
func instPrompt(question, contextText string) string {
	if contextText == "" {
		return fmt.Sprintf("<s>[INST] %s [/INST]", question)
	}
	return fmt.Sprintf(`<s>[INST] Tu es un assistant juridique marocain expert. Réponds de manière claire, naturelle et structurée.

Contexte :
%s

Question :
%s

Réponds en français clair et professionnel, comme un avocat qui conseille un client. Ne cite pas les numéros d'articles (ils seront ajoutés après). [/INST]`, contextText, question)
}
