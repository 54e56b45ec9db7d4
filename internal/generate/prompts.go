package generate

import (
	"fmt"
	"strings"
)

// hasQAContext reports whether any retrieved passage looks like a
// question/answer pair, either a rendered pair or a rewritten vector hit.
func hasQAContext(contexts []string) bool {
	for _, c := range contexts {
		if strings.Contains(c, "Question:") && strings.Contains(c, "Answer:") {
			return true
		}
		if strings.Contains(c, "Original question:") {
			return true
		}
	}
	return false
}

// BuildPrompt assembles the generation prompt. QA-style context gets a prompt
// that tells the model to reuse the recorded answers; plain context gets a
// generic grounded-answer prompt. No context at all gets an honest fallback.
func BuildPrompt(question string, contexts []string) string {
	if len(contexts) == 0 {
		return fmt.Sprintf(`Answer the following question. If you do not know the answer, say so honestly.

Question: %s`, question)
	}

	joined := strings.Join(contexts, "\n\n---\n\n")

	if hasQAContext(contexts) {
		return fmt.Sprintf(`You are a helpful assistant. The reference material below contains question/answer pairs from a knowledge base.

Reference material:
%s

User question: %s

Instructions:
- If a reference pair answers the user question, base your answer on its recorded answer.
- Keep procedural steps and concrete details exactly as written in the reference.
- If the reference material does not cover the question, say that you could not find the answer.

Answer:`, joined, question)
	}

	return fmt.Sprintf(`You are a helpful assistant. Answer the user question using only the reference material below.

Reference material:
%s

User question: %s

Instructions:
- Answer based on the reference material.
- If the reference material does not contain the answer, say that you could not find the answer.

Answer:`, joined, question)
}
