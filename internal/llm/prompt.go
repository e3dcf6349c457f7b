package llm

import (
	"fmt"
	"strings"

	"github.com/Rrens/legal-assistant/internal/domain"
)

const assistantRules = `Eres "Asistente Jurisprudencia", un asistente legal altamente especializado. Tu única base de conocimiento son los siguientes documentos de jurisprudencia proporcionados. Tu tarea es responder preguntas basándote exclusivamente en la información contenida en estos textos.

Reglas estrictas:
1. **Cíñete al texto:** No utilices conocimiento externo. Si la respuesta no se encuentra en los documentos, debes indicar claramente: "La información no se encuentra en los documentos proporcionados".
2. **Sé preciso:** Evita hacer suposiciones o interpretaciones. Basa tus respuestas en los hechos y declaraciones explícitas del texto.
3. **Cita tus fuentes:** Cuando sea posible, menciona el título del documento del cual extrajiste la información.
4. **Sintetiza:** Si una pregunta requiere información de múltiples documentos, combínala en una respuesta coherente.
5. **No inventes:** Nunca debes crear información que no esté presente.
6. **Responde en español.**

Aquí está el repositorio de documentos:
`

// BuildSystemInstruction embeds every document verbatim between numbered delimiters
func BuildSystemInstruction(docs []domain.LegalDocument) string {
	var b strings.Builder
	b.WriteString(assistantRules)

	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n--- INICIO DOCUMENTO %d: %q ---\n", i+1, doc.Title)
		b.WriteString(doc.Content)
		fmt.Fprintf(&b, "\n--- FIN DOCUMENTO %d ---\n", i+1)
	}

	return b.String()
}

// BuildSuggestionPrompt asks for candidate questions derived from document summaries
func BuildSuggestionPrompt(docs []domain.LegalDocument) string {
	summaries := make([]string, len(docs))
	for i, doc := range docs {
		summaries[i] = fmt.Sprintf("- %s (del documento '%s')", doc.Summary, doc.Title)
	}

	return fmt.Sprintf(`Basado en los siguientes resúmenes de documentos legales, genera 4 a 6 preguntas interesantes y específicas que un usuario podría hacer.
Las preguntas deben ser concisas, directas y estar formuladas como si las hiciera un usuario.

Resúmenes:
%s
`, strings.Join(summaries, "\n"))
}

// SuggestionSchema is the structured output shape of a suggestion request
func SuggestionSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"suggestions": {
				Type:        TypeArray,
				Description: "Lista de 4 a 6 preguntas sugeridas.",
				Items: &Schema{
					Type:        TypeString,
					Description: "Una pregunta sugerida.",
				},
			},
		},
		Required: []string{"suggestions"},
	}
}

// Transcript maps conversation turns to provider turns. A leading assistant
// turn is the synthetic greeting and is never replayed to the model.
func Transcript(turns []domain.Turn) []Turn {
	if len(turns) > 0 && turns[0].Role == domain.RoleAssistant {
		turns = turns[1:]
	}

	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, Turn{Role: t.Role, Text: t.Content})
	}
	return out
}

// ExtractJSON pulls a JSON payload out of a model reply, tolerating
// markdown code fences around it.
func ExtractJSON(content string) string {
	if js := extractFromCodeBlock(content, "```json", "```"); js != "" {
		return js
	}
	if js := extractFromCodeBlock(content, "```", "```"); js != "" {
		return js
	}
	return strings.TrimSpace(content)
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	// Skip newline after marker
	if contentStart < len(content) && content[contentStart] == '\n' {
		contentStart++
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}
