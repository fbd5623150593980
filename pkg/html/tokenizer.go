package html

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // tag ended with "/>"
}

type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html}
}

func (t *Tokenizer) NextToken() (Token, error) {
	for t.pos < len(t.input) {
		if t.input[t.pos] != '<' {
			tok, ok := t.readText()
			if ok {
				return tok, nil
			}
			continue
		}
		if t.skipMarkupDeclaration() {
			continue
		}
		return t.readTag()
	}
	return Token{Type: TokenEOF}, nil
}

// skipMarkupDeclaration consumes comments, doctypes and processing
// instructions. It reports whether anything was skipped.
func (t *Tokenizer) skipMarkupDeclaration() bool {
	rest := t.input[t.pos:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		end := strings.Index(rest[4:], "-->")
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += 4 + end + 3
		}
		return true
	case strings.HasPrefix(rest, "<?"):
		end := strings.Index(rest, "?>")
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += end + 2
		}
		return true
	case strings.HasPrefix(rest, "<!"):
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += end + 1
		}
		return true
	}
	return false
}

func (t *Tokenizer) readTag() (Token, error) {
	t.pos++ // '<'

	isEndTag := false
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		isEndTag = true
		t.pos++
	}
	tagName := t.readName(isTagNameChar)
	if tagName == "" {
		return Token{}, fmt.Errorf("expected tag name at position %d", t.pos)
	}
	if isEndTag {
		if err := t.skipTo('>'); err != nil {
			return Token{}, err
		}
		t.pos++
		return Token{Type: TokenEndTag, TagName: tagName}, nil
	}

	tok := Token{Type: TokenStartTag, TagName: tagName, Attributes: make(map[string]string)}
	for {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			return Token{}, fmt.Errorf("unexpected EOF in <%s>", tagName)
		}
		switch t.input[t.pos] {
		case '>':
			t.pos++
			return tok, nil
		case '/':
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				tok.SelfClosing = true
				return tok, nil
			}
			continue
		}
		name, value, err := t.readAttribute()
		if err != nil {
			return Token{}, err
		}
		tok.Attributes[name] = value
	}
}

func (t *Tokenizer) readName(accept func(byte) bool) string {
	start := t.pos
	for t.pos < len(t.input) && accept(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) readAttribute() (string, string, error) {
	name := t.readName(isAttributeNameChar)
	if name == "" {
		return "", "", fmt.Errorf("expected attribute name at position %d", t.pos)
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return name, "", nil
	}
	t.pos++
	t.skipWhitespace()
	if t.pos >= len(t.input) {
		return "", "", fmt.Errorf("expected value for attribute %q", name)
	}

	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		end := strings.IndexByte(t.input[t.pos:], quote)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated value for attribute %q", name)
		}
		value := t.input[t.pos : t.pos+end]
		t.pos += end + 1
		return name, gohtml.UnescapeString(value), nil
	}
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' {
		t.pos++
	}
	return name, gohtml.UnescapeString(t.input[start:t.pos]), nil
}

// readText consumes a run of character data. Whitespace-only runs (usually
// indentation between tags) are dropped and ok is false.
func (t *Tokenizer) readText() (Token, bool) {
	start := t.pos
	if end := strings.IndexByte(t.input[t.pos:], '<'); end >= 0 {
		t.pos += end
	} else {
		t.pos = len(t.input)
	}
	raw := t.input[start:t.pos]
	if strings.TrimSpace(raw) == "" {
		return Token{}, false
	}
	text := gohtml.UnescapeString(normalizeWhitespace(raw))
	return Token{Type: TokenText, Text: text}, true
}

// normalizeWhitespace collapses runs of markup whitespace to a single space,
// keeping one space at either boundary so inline neighbours stay separated.
// Entities are decoded afterwards, so &nbsp; survives collapsing.
func normalizeWhitespace(s string) string {
	hasLeading := isMarkupSpace(s[0])
	hasTrailing := isMarkupSpace(s[len(s)-1])

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r < 0x80 && isMarkupSpace(byte(r))
	})
	result := strings.Join(fields, " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result = result + " "
	}
	return result
}

func isMarkupSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && isMarkupSpace(t.input[t.pos]) {
		t.pos++
	}
}

func (t *Tokenizer) skipTo(target byte) error {
	end := strings.IndexByte(t.input[t.pos:], target)
	if end < 0 {
		t.pos = len(t.input)
		return fmt.Errorf("expected '%c' but reached EOF", target)
	}
	t.pos += end
	return nil
}

// ReadRawUntil reads raw content up to the closing end tag (e.g. </script>)
// and consumes the tag. Used for elements whose body is not markup.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + strings.ToLower(endTag)
	lower := strings.ToLower(t.input[t.pos:])
	idx := strings.Index(lower, needle)
	if idx < 0 {
		content := t.input[t.pos:]
		t.pos = len(t.input)
		return content
	}
	content := t.input[t.pos : t.pos+idx]
	t.pos += idx
	if end := strings.IndexByte(t.input[t.pos:], '>'); end >= 0 {
		t.pos += end + 1
	} else {
		t.pos = len(t.input)
	}
	return content
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.'
}
