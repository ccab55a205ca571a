package app

import (
	"strings"
	"testing"
)

const mindMapPayload = `{
  "meta": {"topic": "Photosynthesis", "level": "middle school", "creationDate": "2026-03-15", "version": "1.0"},
  "introduction": {"description": "How plants turn light into food.", "objectives": ["Understand inputs", "Understand outputs"]},
  "mindMap": {
    "centralTopic": "Photosynthesis",
    "topics": [
      {"id": "t1", "name": "Inputs", "description": "What the plant needs", "subtopics": [
        {"id": "s1", "name": "Sunlight", "description": "Energy source"},
        {"id": "s2", "name": "Water", "description": ""}
      ]},
      {"id": "t2", "name": "Outputs", "description": "What the plant produces"}
    ]
  },
  "studyTips": {"strategies": ["Draw the cycle"], "additionalResources": [], "studyOrder": []}
}`

func TestDetectMindMapPlainJSON(t *testing.T) {
	data, ok := DetectMindMap(mindMapPayload)
	if !ok {
		t.Fatalf("expected mind map to be detected")
	}
	if data.MindMap.CentralTopic != "Photosynthesis" {
		t.Fatalf("unexpected central topic %q", data.MindMap.CentralTopic)
	}
	if len(data.MindMap.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(data.MindMap.Topics))
	}
}

func TestDetectMindMapStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + mindMapPayload + "\n```"
	if _, ok := DetectMindMap(fenced); !ok {
		t.Fatalf("expected fenced payload to be detected")
	}

	bareFence := "```\n" + mindMapPayload + "\n```"
	if _, ok := DetectMindMap(bareFence); !ok {
		t.Fatalf("expected bare-fenced payload to be detected")
	}
}

func TestDetectMindMapFallsBackToText(t *testing.T) {
	for _, content := range []string{
		"Photosynthesis is how plants make food.",
		"```json\n{broken json\n```",
		`{"answer": "json but not a mind map"}`,
		"",
	} {
		if _, ok := DetectMindMap(content); ok {
			t.Fatalf("content %q should not be detected as a mind map", content)
		}
	}
}

func TestMindMapOutline(t *testing.T) {
	data, ok := DetectMindMap(mindMapPayload)
	if !ok {
		t.Fatalf("detect failed")
	}
	out := data.Outline()

	for _, want := range []string{
		"Photosynthesis",
		"Inputs",
		"Sunlight",
		"Outputs",
		"Objectives:",
		"Study tips:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("outline missing %q:\n%s", want, out)
		}
	}
}
