package answer

import (
	"fmt"
	"strings"

	"github.com/ternarybob/respondeo/internal/models"
)

const systemPrompt = "You are an AI assistant that helps answer questions based on PDF documents. " +
	"Use the following context to answer the question. If you don't know the answer from the provided context, say you don't know."

// NoContentAnswer is returned verbatim for tenants whose index holds no
// chunks. The language model is never invoked in that case.
const NoContentAnswer = "No content has been indexed for this tenant yet. Ingest the tenant's documents and try again."

// buildPrompt assembles the retrieved chunks and the question into the user
// message sent to the chat model. Each chunk is labeled with its source file
// and page range so the model can ground its answer.
func buildPrompt(question string, results []models.SearchResult) string {
	var sb strings.Builder

	sb.WriteString("Context:\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "\n[%s, pages %d-%d]\n%s\n", r.Chunk.FileName, r.Chunk.PageStart, r.Chunk.PageEnd, r.Chunk.Text)
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)

	return sb.String()
}
