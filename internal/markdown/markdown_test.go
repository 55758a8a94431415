// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import "testing"

func TestRenderMixedDocument(t *testing.T) {
	input := "### Title\n- item one\n**bold** text"

	segments := Render(input)

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	if segments[0].Kind != SegmentHeading3 {
		t.Errorf("segment 0: expected heading-3, got %v", segments[0].Kind)
	}
	if got := segments[0].Text(); got != "Title" {
		t.Errorf("segment 0 text: expected %q, got %q", "Title", got)
	}

	if segments[1].Kind != SegmentBullet {
		t.Errorf("segment 1: expected bullet, got %v", segments[1].Kind)
	}
	if got := segments[1].Text(); got != "item one" {
		t.Errorf("segment 1 text: expected %q, got %q", "item one", got)
	}

	if segments[2].Kind != SegmentParagraph {
		t.Errorf("segment 2: expected paragraph, got %v", segments[2].Kind)
	}
	spans := segments[2].Spans
	if len(spans) != 2 {
		t.Fatalf("segment 2: expected 2 spans, got %d", len(spans))
	}
	if spans[0].Style != SpanBold || spans[0].Text != "bold" {
		t.Errorf("segment 2 span 0: expected bold %q, got %v %q", "bold", spans[0].Style, spans[0].Text)
	}
	if spans[1].Style != SpanPlain || spans[1].Text != " text" {
		t.Errorf("segment 2 span 1: expected plain %q, got %v %q", " text", spans[1].Style, spans[1].Text)
	}
}

func TestRenderLineKinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind SegmentKind
		text string
	}{
		{"heading2", "## Overview", SegmentHeading2, "Overview"},
		{"heading3", "### Details", SegmentHeading3, "Details"},
		{"heading3 wins over heading2", "### x", SegmentHeading3, "x"},
		{"dash bullet", "- first", SegmentBullet, "first"},
		{"star bullet", "* second", SegmentBullet, "second"},
		{"paragraph", "plain line", SegmentParagraph, "plain line"},
		{"dash without space is paragraph", "-notabullet", SegmentParagraph, "-notabullet"},
		{"heading without space", "##Tight", SegmentHeading2, "Tight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Render(tt.line)
			if len(segments) != 1 {
				t.Fatalf("expected 1 segment, got %d", len(segments))
			}
			if segments[0].Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, segments[0].Kind)
			}
			if got := segments[0].Text(); got != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, got)
			}
		})
	}
}

func TestRenderBlankLinesDropped(t *testing.T) {
	segments := Render("first\n\n   \nsecond\n")
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text() != "first" || segments[1].Text() != "second" {
		t.Errorf("unexpected texts: %q, %q", segments[0].Text(), segments[1].Text())
	}
}

func TestRenderEmptyInput(t *testing.T) {
	if got := Render(""); len(got) != 0 {
		t.Errorf("expected no segments for empty input, got %d", len(got))
	}
	if got := Render("\n\n"); len(got) != 0 {
		t.Errorf("expected no segments for blank input, got %d", len(got))
	}
}

func TestRenderImages(t *testing.T) {
	t.Run("standalone image", func(t *testing.T) {
		segments := Render("![a car](https://example.com/car.png)")
		if len(segments) != 1 {
			t.Fatalf("expected 1 segment, got %d", len(segments))
		}
		img := segments[0]
		if img.Kind != SegmentImage {
			t.Fatalf("expected image segment, got %v", img.Kind)
		}
		if img.Alt != "a car" || img.URL != "https://example.com/car.png" {
			t.Errorf("unexpected image fields: alt=%q url=%q", img.Alt, img.URL)
		}
	})

	t.Run("image between text keeps source order", func(t *testing.T) {
		segments := Render("before\n![x](u)\nafter")
		if len(segments) != 3 {
			t.Fatalf("expected 3 segments, got %d", len(segments))
		}
		if segments[0].Kind != SegmentParagraph || segments[0].Text() != "before" {
			t.Errorf("segment 0 wrong: %+v", segments[0])
		}
		if segments[1].Kind != SegmentImage || segments[1].URL != "u" {
			t.Errorf("segment 1 wrong: %+v", segments[1])
		}
		if segments[2].Kind != SegmentParagraph || segments[2].Text() != "after" {
			t.Errorf("segment 2 wrong: %+v", segments[2])
		}
	})

	t.Run("empty alt allowed", func(t *testing.T) {
		segments := Render("![](u)")
		if len(segments) != 1 || segments[0].Kind != SegmentImage || segments[0].Alt != "" {
			t.Fatalf("expected image with empty alt, got %+v", segments)
		}
	})

	t.Run("empty url is not an image", func(t *testing.T) {
		segments := Render("![alt]()")
		if len(segments) != 1 || segments[0].Kind != SegmentParagraph {
			t.Fatalf("expected paragraph, got %+v", segments)
		}
	})

	t.Run("unclosed token is literal text", func(t *testing.T) {
		segments := Render("![dangling](no-close")
		if len(segments) != 1 || segments[0].Kind != SegmentParagraph {
			t.Fatalf("expected paragraph, got %+v", segments)
		}
	})
}

func TestRenderSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			"plain only",
			"hello world",
			[]Span{{SpanPlain, "hello world"}},
		},
		{
			"bold asterisks",
			"a **b** c",
			[]Span{{SpanPlain, "a "}, {SpanBold, "b"}, {SpanPlain, " c"}},
		},
		{
			"bold underscores",
			"__strong__",
			[]Span{{SpanBold, "strong"}},
		},
		{
			"italic",
			"an *em* word",
			[]Span{{SpanPlain, "an "}, {SpanItalic, "em"}, {SpanPlain, " word"}},
		},
		{
			"code",
			"run `go version` now",
			[]Span{{SpanPlain, "run "}, {SpanCode, "go version"}, {SpanPlain, " now"}},
		},
		{
			"unterminated bold stays literal",
			"**dangling",
			[]Span{{SpanPlain, "**dangling"}},
		},
		{
			"unterminated code stays literal",
			"`oops",
			[]Span{{SpanPlain, "`oops"}},
		},
		{
			"adjacent styles",
			"**a**`b`",
			[]Span{{SpanBold, "a"}, {SpanCode, "b"}},
		},
		{
			"bold preferred over italic",
			"**x** *y*",
			[]Span{{SpanBold, "x"}, {SpanPlain, " "}, {SpanItalic, "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSpans(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d spans, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d: expected %v %q, got %v %q",
						i, tt.want[i].Style, tt.want[i].Text, got[i].Style, got[i].Text)
				}
			}
		})
	}
}

func TestRenderSegmentCount(t *testing.T) {
	// One line segment per non-blank line, plus one image segment per
	// embedded image token.
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"three lines", "## A\n- b\nc", 3},
		{"blank lines excluded", "a\n\nb\n\n\nc", 3},
		{"line plus inline image", "look: ![car](u) here", 3},
		{"two images", "![a](1)![b](2)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Render(tt.input)); got != tt.want {
				t.Errorf("expected %d segments, got %d", tt.want, got)
			}
		})
	}
}

func TestRenderIsPure(t *testing.T) {
	input := "## Header\n- a\n- b"
	first := Render(input)
	second := Render(input)

	if len(first) != len(second) {
		t.Fatalf("repeated renders differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Text() != second[i].Text() {
			t.Errorf("segment %d differs between renders", i)
		}
	}
}
