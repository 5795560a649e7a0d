package bot

import (
	"strings"
	"unicode/utf8"
)

// maxMessageLength is Telegram's limit per message, in UTF-16 code units
const maxMessageLength = 4096

// markdownV2Specials must be prefixed with a backslash in MarkdownV2 text
const markdownV2Specials = "_*[]()~`>#+-=|{}.!\\"

// escapeMarkdownV2 escapes every MarkdownV2 special character,
// so the text is shown literally
func escapeMarkdownV2(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownV2Specials, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// splitEscaped escapes text and cuts it into chunks of at most limit
// UTF-16 code units without separating a backslash from the character
// it escapes. Empty text yields a single empty chunk.
func splitEscaped(text string, limit int) []string {
	var (
		chunks []string
		sb     strings.Builder
		size   int
	)

	for _, r := range text {
		unit := utf16Len(r)
		escaped := strings.ContainsRune(markdownV2Specials, r)
		if escaped {
			unit++
		}

		if size+unit > limit && size > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
			size = 0
		}

		if escaped {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
		size += unit
	}

	if size > 0 || len(chunks) == 0 {
		chunks = append(chunks, sb.String())
	}

	return chunks
}

// utf16Len returns how many UTF-16 code units r occupies
func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
