package llm

import "strings"

const promptTemplate = `## Task
Your task is to convert the provided PGN representation of a chess game into a FEN string.

## Instructions
1. Read the provided PGN text carefully.
2. Convert the PGN text into a FEN string.
3. Do not include any additional text, explanations, or backticks in your response. ONLY return the FEN string.
4. Do not use code to convert the PGN to FEN. Use your own knowledge and understanding of chess to perform the conversion.

For example, if the PGN text represented the starting position of a chess game, you would return the following and nothing else:
rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1

## Input
{pgn_text}`

// BuildPrompt fills the translation prompt with the PGN transcript.
func BuildPrompt(pgnText string) string {
	return strings.Replace(promptTemplate, "{pgn_text}", strings.TrimSpace(pgnText), 1)
}
