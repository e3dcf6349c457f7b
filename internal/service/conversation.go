package service

import "github.com/Rrens/legal-assistant/internal/domain"

const (
	GreetingWelcome     = "Hola. Soy el Asistente de Jurisprudencia. Mi conocimiento se basa en minutas de fallos de la Corte Suprema. ¿En qué puedo ayudarte?"
	GreetingNoDocuments = "No hay documentos cargados. Por favor, pida a un administrador que agregue jurisprudencia."
	ApologyMessage      = "Lo siento, no pude procesar tu solicitud. Por favor, intenta de nuevo."
)

// Conversation is the append-only list of turns. It is not safe for
// concurrent use; App serializes access.
type Conversation struct {
	turns []domain.Turn
	epoch uint64
}

func NewConversation() *Conversation {
	return &Conversation{}
}

// Reset replaces every turn with a single greeting and starts a new epoch
func (c *Conversation) Reset(hasDocuments bool) uint64 {
	greeting := GreetingNoDocuments
	if hasDocuments {
		greeting = GreetingWelcome
	}
	c.turns = []domain.Turn{domain.NewTurn(domain.RoleAssistant, greeting, domain.TurnResolved)}
	c.epoch++
	return c.epoch
}

func (c *Conversation) Append(turn domain.Turn) {
	c.turns = append(c.turns, turn)
}

// Turns returns a copy of the stored turns
func (c *Conversation) Turns() []domain.Turn {
	out := make([]domain.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	return len(c.turns)
}

// Epoch changes on every reset
func (c *Conversation) Epoch() uint64 {
	return c.epoch
}
