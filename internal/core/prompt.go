package core

import (
	"fmt"
	"strings"

	"github.com/forgeml/chat-relay/internal/store"
)

// systemInstruction pins down the assistant persona for every completion.
const systemInstruction = "You are a helpful AI assistant. Be polite, professional, and helpful. " +
	"Do not roleplay as characters or pretend to be someone else. " +
	"Provide clear, accurate, and useful responses to user questions and requests. " +
	"Keep your responses conversational but professional."

// ComposePrompt flattens the system instruction, the user's display name
// when known, the prior conversation in the order supplied, and the new
// message into a single text prompt. The full history is embedded verbatim;
// bounding prompt cost is the caller's job via the history fetch limit.
func ComposePrompt(newMessage string, history []store.Message, userName string) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n")

	if userName != "" {
		fmt.Fprintf(&b, "The user's name is %s. ", userName)
	}

	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, msg := range history {
			role := "User"
			if msg.Role == store.RoleAssistant {
				role = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("Current message: ")
	b.WriteString(newMessage)
	return b.String()
}
