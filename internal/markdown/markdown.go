// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders the restricted markdown subset the assistant
// emits into a structured segment tree.
//
// Supported: ## and ### headings, "- "/"* " bullet lines, inline images
// ![alt](url), and inline **bold**, *italic* and `code` spans. The output
// is a sequence of typed segments for the UI layer to style; no markup is
// ever re-injected as raw text, since assistant text originates from a
// third-party model.
//
// Known limitation: emphasis substitution is a single, non-recursive pass.
// Nested emphasis (bold containing code, bold-in-bold) is undefined and
// deliberately out of scope; this is not CommonMark.
package markdown

import "strings"

// =============================================================================
// SEGMENT MODEL
// =============================================================================

// SegmentKind classifies a display segment.
type SegmentKind int

const (
	SegmentParagraph SegmentKind = iota
	SegmentHeading2
	SegmentHeading3
	SegmentBullet
	SegmentImage
)

// SpanStyle classifies an inline span within a line segment.
type SpanStyle int

const (
	SpanPlain SpanStyle = iota
	SpanBold
	SpanItalic
	SpanCode
)

// Span is one inline run of styled text.
type Span struct {
	Style SpanStyle
	Text  string
}

// Segment is one display unit. Line segments carry Spans; image segments
// carry Alt and URL instead.
type Segment struct {
	Kind  SegmentKind
	Spans []Span

	// Image fields, set only when Kind == SegmentImage.
	Alt string
	URL string
}

// Text flattens the segment's spans into plain text.
func (s Segment) Text() string {
	var b strings.Builder
	for _, span := range s.Spans {
		b.WriteString(span.Text)
	}
	return b.String()
}

// =============================================================================
// RENDERER
// =============================================================================

// Render converts text into an ordered segment sequence. The result is
// recomputed from the input on every call; there is no cached state.
//
// Pass structure: inline image tokens split the text into chunks, each
// chunk expands into line segments, then the image segment follows, in
// source order.
func Render(text string) []Segment {
	var segments []Segment

	rest := text
	for {
		before, img, after, found := nextImage(rest)
		if !found {
			segments = append(segments, renderLines(rest)...)
			break
		}
		segments = append(segments, renderLines(before)...)
		segments = append(segments, img)
		rest = after
	}

	return segments
}

// nextImage scans for the first ![alt](url) token. Alt may be empty; url
// is a non-empty run containing no ')'. Returns the text before the token,
// the image segment, and the remaining text.
func nextImage(text string) (before string, img Segment, after string, found bool) {
	for start := 0; ; {
		i := strings.Index(text[start:], "![")
		if i < 0 {
			return "", Segment{}, "", false
		}
		i += start

		closeAlt := strings.Index(text[i+2:], "]")
		if closeAlt < 0 {
			return "", Segment{}, "", false
		}
		closeAlt += i + 2

		if closeAlt+1 >= len(text) || text[closeAlt+1] != '(' {
			start = i + 2
			continue
		}

		closeURL := strings.Index(text[closeAlt+2:], ")")
		if closeURL < 0 {
			return "", Segment{}, "", false
		}
		closeURL += closeAlt + 2

		url := text[closeAlt+2 : closeURL]
		if url == "" {
			start = i + 2
			continue
		}

		return text[:i], Segment{
			Kind: SegmentImage,
			Alt:  text[i+2 : closeAlt],
			URL:  url,
		}, text[closeURL+1:], true
	}
}

// renderLines expands a text chunk into line-based segments. Blank lines
// produce no segment.
func renderLines(chunk string) []Segment {
	var segments []Segment

	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		segments = append(segments, classifyLine(line))
	}
	return segments
}

// classifyLine maps one non-blank trimmed line to a segment. Precedence:
// ### before ##, then bullet markers, then paragraph.
func classifyLine(line string) Segment {
	switch {
	case strings.HasPrefix(line, "###"):
		return Segment{
			Kind:  SegmentHeading3,
			Spans: renderSpans(strings.TrimLeft(line[3:], " ")),
		}
	case strings.HasPrefix(line, "##"):
		return Segment{
			Kind:  SegmentHeading2,
			Spans: renderSpans(strings.TrimLeft(line[2:], " ")),
		}
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return Segment{
			Kind:  SegmentBullet,
			Spans: renderSpans(line[2:]),
		}
	default:
		return Segment{
			Kind:  SegmentParagraph,
			Spans: renderSpans(line),
		}
	}
}

// =============================================================================
// INLINE SPANS
// =============================================================================

// renderSpans applies the inline emphasis substitution in a single
// left-to-right pass: **/__ bold, single */_ italic (when not part of a
// double marker), and backtick code. Unterminated markers fall through as
// literal text. No nested re-parsing is performed.
func renderSpans(text string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Style: SpanPlain, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		style, content, width, ok := matchInline(text[i:])
		if !ok {
			plain.WriteByte(text[i])
			i++
			continue
		}
		flush()
		spans = append(spans, Span{Style: style, Text: content})
		i += width
	}
	flush()

	return spans
}

// matchInline tries to match an emphasis token at the start of s. Returns
// the span style, the inner content, and the total token width consumed.
func matchInline(s string) (SpanStyle, string, int, bool) {
	for _, marker := range []string{"**", "__"} {
		if content, width, ok := delimited(s, marker, marker); ok {
			return SpanBold, content, width, true
		}
	}

	// Single-character markers must not sit on a double-marker run; the
	// double forms were already tried above, so a leading single marker
	// followed by its twin means an empty or dangling token.
	for _, marker := range []string{"*", "_"} {
		if content, width, ok := delimited(s, marker, marker); ok && content != "" {
			return SpanItalic, content, width, true
		}
	}

	if content, width, ok := delimited(s, "`", "`"); ok && content != "" {
		return SpanCode, content, width, true
	}

	return SpanPlain, "", 0, false
}

// delimited matches open + content + close at the start of s, with
// non-empty content that does not begin with the closing marker.
func delimited(s, open, close string) (string, int, bool) {
	if !strings.HasPrefix(s, open) {
		return "", 0, false
	}
	inner := s[len(open):]
	end := strings.Index(inner, close)
	if end <= 0 {
		return "", 0, false
	}
	return inner[:end], len(open) + end + len(close), true
}
