package prompt

import "github.com/thywilljoshua/pdf-reader/internal/ai"

// EstimateTokens approximates the token count of text: about four ASCII
// characters per token and one token per non-ASCII character.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		if r <= 127 {
			weight++
		} else {
			weight += 4
		}
	}
	return (weight + 3) / 4
}

// EstimateMessages sums EstimateTokens over message contents.
func EstimateMessages(msgs []ai.Message) int {
	total := 0
	for _, m := range msgs {
		total += EstimateTokens(m.Content)
	}
	return total
}
