package prompt

import (
	"strings"
)

// ChunkSeparator marks the boundary between two context chunks.
const ChunkSeparator = "\n\n---\n\n"

// NotesBuilder builds grounded prompts that restrict the model to the supplied notes
type NotesBuilder struct {
	chunks   []string
	question string
}

// NewNotesBuilder creates a new grounded prompt builder
func NewNotesBuilder(chunks []string, question string) *NotesBuilder {
	return &NotesBuilder{
		chunks:   chunks,
		question: question,
	}
}

// Build renders instruction, context, question and the answer cue, in that order.
// Chunk text is copied verbatim.
func (b *NotesBuilder) Build() string {
	var prompt strings.Builder

	b.writeInstruction(&prompt)
	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *NotesBuilder) writeInstruction(prompt *strings.Builder) {
	prompt.WriteString("You are a helpful study assistant.\n")
	prompt.WriteString("Use ONLY the context below to answer the user's question. ")
	prompt.WriteString("If the answer is not in the context, say \"I don't know based on the notes.\" ")
	prompt.WriteString("Keep the explanation simple and student-friendly.\n\n")
}

func (b *NotesBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("Context:\n")
	prompt.WriteString(strings.Join(b.chunks, ChunkSeparator))
	prompt.WriteString("\n\n")
}

func (b *NotesBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Question: ")
	prompt.WriteString(b.question)
	prompt.WriteString("\n\n")
	prompt.WriteString("Answer:")
}
