package jira

import (
	"encoding/json"
	"strings"
	"testing"
)

func adfDoc(t *testing.T, raw string) interface{} {
	t.Helper()
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return doc
}

func TestADFTextParagraphs(t *testing.T) {
	doc := adfDoc(t, `{
		"type": "doc", "version": 1,
		"content": [
			{"type": "paragraph", "content": [{"type": "text", "text": "First paragraph."}]},
			{"type": "paragraph", "content": [{"type": "text", "text": "Second paragraph."}]}
		]
	}`)
	got := ADFText(doc)
	want := "First paragraph.\n\nSecond paragraph."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestADFTextBulletList(t *testing.T) {
	doc := adfDoc(t, `{
		"type": "doc", "version": 1,
		"content": [{
			"type": "bulletList",
			"content": [
				{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "one"}]}]},
				{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "two"}]}]}
			]
		}]
	}`)
	got := ADFText(doc)
	if !strings.Contains(got, "- one") || !strings.Contains(got, "- two") {
		t.Errorf("list items not rendered: %q", got)
	}
}

func TestADFTextMentionAndBreak(t *testing.T) {
	doc := adfDoc(t, `{
		"type": "doc", "version": 1,
		"content": [{
			"type": "paragraph",
			"content": [
				{"type": "mention", "attrs": {"id": "1", "text": "@Ada"}},
				{"type": "text", "text": " please review"},
				{"type": "hardBreak"},
				{"type": "text", "text": "thanks"}
			]
		}]
	}`)
	got := ADFText(doc)
	want := "@Ada please review\nthanks"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestADFTextNonDocInputs(t *testing.T) {
	if got := ADFText("plain string"); got != "plain string" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if got := ADFText(nil); got != "" {
		t.Errorf("expected empty for nil, got %q", got)
	}
	if got := ADFText(42); got != "" {
		t.Errorf("expected empty for non-document, got %q", got)
	}
}

func TestADFTextUnknownNodesContributeChildren(t *testing.T) {
	doc := adfDoc(t, `{
		"type": "doc", "version": 1,
		"content": [{
			"type": "panel", "attrs": {"panelType": "info"},
			"content": [{"type": "paragraph", "content": [{"type": "text", "text": "inside panel"}]}]
		}]
	}`)
	if got := ADFText(doc); !strings.Contains(got, "inside panel") {
		t.Errorf("panel content lost: %q", got)
	}
}
