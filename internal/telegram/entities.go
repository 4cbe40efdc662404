package telegram

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/gotd/td/telegram/message/entity"
	"github.com/gotd/td/telegram/message/html"
	"github.com/gotd/td/tg"
)

// PreviewMarkdown returns the message as markdown so a terminal renderer
// can show roughly what recipients will see. In HTML mode the text goes
// through the same parser used for sending.
func PreviewMarkdown(text string, mode ParseMode) (string, error) {
	if mode != ParseHTML {
		return text, nil
	}
	var b entity.Builder
	if err := html.HTML(strings.NewReader(text), &b, html.Options{}); err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	plain, entities := b.Complete()
	return EntitiesToMarkdown(plain, entities), nil
}

type span struct {
	start, end     int // UTF-16 code units
	prefix, suffix string
}

// EntitiesToMarkdown wraps the entity ranges of text in markdown markers.
// Offsets are in UTF-16 code units, as Telegram sends them.
func EntitiesToMarkdown(text string, entities []tg.MessageEntityClass) string {
	units := utf16.Encode([]rune(text))

	spans := make([]span, 0, len(entities))
	for _, e := range entities {
		prefix, suffix, ok := markers(units, e)
		if !ok {
			continue
		}
		start := min(e.GetOffset(), len(units))
		end := min(start+e.GetLength(), len(units))
		spans = append(spans, span{start, end, prefix, suffix})
	}
	if len(spans) == 0 {
		return text
	}

	// Outer spans first so nested markers close in reverse order.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	opens := make(map[int][]string)
	closes := make(map[int][]string)
	for _, s := range spans {
		opens[s.start] = append(opens[s.start], s.prefix)
		closes[s.end] = append([]string{s.suffix}, closes[s.end]...)
	}

	var quotes [][2]int
	for _, e := range entities {
		if q, ok := e.(*tg.MessageEntityBlockquote); ok {
			quotes = append(quotes, [2]int{q.Offset, q.Offset + q.Length})
		}
	}
	inQuote := func(i int) bool {
		for _, q := range quotes {
			if i > q[0] && i < q[1] {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	for i := 0; i <= len(units); i++ {
		for _, m := range closes[i] {
			b.WriteString(m)
		}
		for _, m := range opens[i] {
			b.WriteString(m)
		}
		if i == len(units) {
			break
		}
		if utf16.IsSurrogate(rune(units[i])) && i+1 < len(units) {
			b.WriteRune(utf16.DecodeRune(rune(units[i]), rune(units[i+1])))
			i++
			continue
		}
		b.WriteRune(rune(units[i]))
		if units[i] == '\n' && inQuote(i+1) {
			b.WriteString("> ")
		}
	}
	return b.String()
}

func markers(units []uint16, entity tg.MessageEntityClass) (prefix, suffix string, ok bool) {
	switch e := entity.(type) {
	case *tg.MessageEntityBold, *tg.MessageEntityMentionName:
		return "**", "**", true
	case *tg.MessageEntityItalic, *tg.MessageEntityUnderline:
		return "*", "*", true
	case *tg.MessageEntityCode:
		return "`", "`", true
	case *tg.MessageEntityPre:
		return "```" + e.Language + "\n", "\n```", true
	case *tg.MessageEntityStrike:
		return "~~", "~~", true
	case *tg.MessageEntitySpoiler:
		return "||", "||", true
	case *tg.MessageEntityBlockquote:
		return "> ", "", true
	case *tg.MessageEntityTextURL:
		return "[", "](" + e.URL + ")", true
	case *tg.MessageEntityURL:
		return "[", "](" + substring(units, e.Offset, e.Length) + ")", true
	default:
		return "", "", false
	}
}

func substring(units []uint16, offset, length int) string {
	if offset >= len(units) {
		return ""
	}
	end := min(offset+length, len(units))
	return string(utf16.Decode(units[offset:end]))
}
