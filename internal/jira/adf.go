package jira

import (
	"strings"
)

// ADFText flattens an Atlassian Document Format tree into plain text.
// Jira Cloud returns descriptions and comment bodies as ADF. The
// extraction is lossy on purpose: block nodes become paragraphs,
// inline formatting is dropped, and unknown node types contribute only
// their children.
func ADFText(doc interface{}) string {
	node, ok := doc.(map[string]interface{})
	if !ok {
		if s, ok := doc.(string); ok {
			return s
		}
		return ""
	}
	var b strings.Builder
	writeADFNode(&b, node, 0)
	return strings.TrimRight(b.String(), "\n")
}

// blockNodes are ADF node types that end with a blank line.
var blockNodes = map[string]bool{
	"paragraph":  true,
	"heading":    true,
	"codeBlock":  true,
	"blockquote": true,
	"rule":       true,
}

func writeADFNode(b *strings.Builder, node map[string]interface{}, depth int) {
	nodeType, _ := node["type"].(string)

	switch nodeType {
	case "text":
		if text, ok := node["text"].(string); ok {
			b.WriteString(text)
		}
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	case "rule":
		b.WriteString("---\n\n")
		return
	case "mention":
		if attrs, ok := node["attrs"].(map[string]interface{}); ok {
			if text, ok := attrs["text"].(string); ok {
				b.WriteString(text)
			}
		}
		return
	case "emoji":
		if attrs, ok := node["attrs"].(map[string]interface{}); ok {
			if shortName, ok := attrs["shortName"].(string); ok {
				b.WriteString(shortName)
			}
		}
		return
	case "listItem":
		b.WriteString(strings.Repeat("  ", depth) + "- ")
	}

	children, _ := node["content"].([]interface{})
	childDepth := depth
	if nodeType == "listItem" {
		childDepth++
	}
	for _, child := range children {
		childNode, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		writeADFNode(b, childNode, childDepth)
	}

	switch {
	case blockNodes[nodeType]:
		b.WriteString("\n\n")
	case nodeType == "listItem":
		b.WriteString("\n")
	case nodeType == "bulletList" || nodeType == "orderedList":
		b.WriteString("\n")
	}
}
