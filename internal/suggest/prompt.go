package suggest

import (
	"fmt"
	"strings"

	"github.com/ai-messenger/chat-platform/internal/model"
)

// contextSize is how many trailing messages feed the suggestion prompt.
const contextSize = 5

// BuildPrompt renders recent messages as a plain completion prompt for
// backends that take a single text input.
func BuildPrompt(messages []*model.Message, targetUser string) string {
	var b strings.Builder
	b.WriteString("You are helping to suggest the next natural line in a chat conversation. ")
	b.WriteString("Based on the conversation context, suggest ONE short, natural reply ")
	b.WriteString("(a few words at most) that would fit the conversation flow.\n\n")
	b.WriteString("Recent conversation:\n")

	for _, msg := range lastMessages(messages, contextSize) {
		fmt.Fprintf(&b, "%s: %s\n", msg.Sender, msg.Content)
	}

	speaker := "the next speaker"
	if targetUser != "" {
		speaker = targetUser
	}
	fmt.Fprintf(&b, "\nSuggest a natural reply for %s (keep it very short and conversational): ", speaker)
	return b.String()
}

// BuildChatMessages renders recent messages as a system/user message pair
// for chat-completion backends.
func BuildChatMessages(messages []*model.Message, targetUser string) []ChatMessage {
	var lines []string
	for _, msg := range lastMessages(messages, contextSize) {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Content))
	}

	return []ChatMessage{
		{
			Role: "system",
			Content: "You are helping to suggest natural chat replies. Generate ONE very short, " +
				"natural reply that fits the conversation context. No explanations, just the suggested reply.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Recent conversation:\n%s\n\nSuggest a natural reply:", strings.Join(lines, "\n")),
		},
	}
}

func lastMessages(messages []*model.Message, n int) []*model.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
