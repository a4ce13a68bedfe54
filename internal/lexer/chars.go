package lexer

// eof is returned by rune decoding past the end of the input.
const eof = -1

// isWordChar reports whether r may appear in a bare word. Whitespace, a
// closing parenthesis and the end of input end a word; everything else,
// including quotes and operators, may be part of one.
func isWordChar(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', ')', eof:
		return false
	}
	return true
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return isLower(r) || isEmoji(r)
}

func isIdentChar(r rune) bool {
	return isLower(r) || isDigit(r) || r == '-' || isEmoji(r)
}

// Interpolated names may refer to host values such as $HOME, so they also
// accept upper case letters and underscores.
func isInterpStart(r rune) bool {
	return isIdentStart(r) || (r >= 'A' && r <= 'Z') || r == '_'
}

func isInterpChar(r rune) bool {
	return isInterpStart(r) || isDigit(r)
}

var emojiRanges = [...][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F1E6, 0x1F1FF}, // regional indicators
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
	{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	{0x1FA70, 0x1FAFF}, // symbols and pictographs extended-A
	{0x1F018, 0x1F270}, // various asian characters
	{0xFE00, 0xFE0F},   // variation selectors
	{0x238C, 0x2454},   // misc technical
	{0x20D0, 0x20FF},   // combining marks for symbols
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// IsIdentifier reports whether s as a whole is identifier-shaped.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentChar(r) {
			return false
		}
	}
	return true
}

// isOpChar reports whether r can begin an infix operator. `-` is excluded
// because it is common inside names.
func isOpChar(r rune) bool {
	switch r {
	case '+', '*', '/', '<', '>', '!', '=':
		return true
	}
	return false
}
