package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
)

func TestEntitiesToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		entities []tg.MessageEntityClass
		expected string
	}{
		{
			name:     "multi-line blockquote",
			text:     "first\nsecond\nthird\nafter",
			entities: []tg.MessageEntityClass{&tg.MessageEntityBlockquote{Offset: 0, Length: 18}},
			expected: "> first\n> second\n> third\nafter",
		},
		{
			name:     "no entities",
			text:     "Hello world",
			expected: "Hello world",
		},
		{
			name:     "bold",
			text:     "Hello world",
			entities: []tg.MessageEntityClass{&tg.MessageEntityBold{Offset: 6, Length: 5}},
			expected: "Hello **world**",
		},
		{
			name:     "pre with language",
			text:     "func main() {}",
			entities: []tg.MessageEntityClass{&tg.MessageEntityPre{Offset: 0, Length: 14, Language: "go"}},
			expected: "```go\nfunc main() {}\n```",
		},
		{
			name:     "text url",
			text:     "Click here for info",
			entities: []tg.MessageEntityClass{&tg.MessageEntityTextURL{Offset: 6, Length: 4, URL: "https://example.com"}},
			expected: "Click [here](https://example.com) for info",
		},
		{
			name:     "bare url",
			text:     "Visit https://example.com today",
			entities: []tg.MessageEntityClass{&tg.MessageEntityURL{Offset: 6, Length: 19}},
			expected: "Visit [https://example.com](https://example.com) today",
		},
		{
			name: "nested bold italic",
			text: "Hello world",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntityBold{Offset: 0, Length: 11},
				&tg.MessageEntityItalic{Offset: 6, Length: 5},
			},
			expected: "**Hello *world***",
		},
		{
			// 👋 is a surrogate pair, so "world" starts at UTF-16 offset 9.
			name:     "surrogate pair",
			text:     "Hello 👋 world",
			entities: []tg.MessageEntityClass{&tg.MessageEntityBold{Offset: 9, Length: 5}},
			expected: "Hello 👋 **world**",
		},
		{
			name:     "unsupported entity",
			text:     "Hey @johndoe",
			entities: []tg.MessageEntityClass{&tg.MessageEntityMention{Offset: 4, Length: 8}},
			expected: "Hey @johndoe",
		},
		{
			name:     "out of range",
			text:     "abc",
			entities: []tg.MessageEntityClass{&tg.MessageEntityStrike{Offset: 1, Length: 10}},
			expected: "a~~bc~~",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EntitiesToMarkdown(tt.text, tt.entities)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestPreviewMarkdown_Plain(t *testing.T) {
	text := "<b>not parsed</b>"
	result, err := PreviewMarkdown(text, ParsePlain)
	if err != nil {
		t.Fatal(err)
	}
	if result != text {
		t.Errorf("expected %q, got %q", text, result)
	}
}

func TestPreviewMarkdown_HTML(t *testing.T) {
	result, err := PreviewMarkdown("<b>Sale</b> starts <i>now</i>", ParseHTML)
	if err != nil {
		t.Fatal(err)
	}
	expected := "**Sale** starts *now*"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}
