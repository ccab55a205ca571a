package app

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The agent answers mind-map requests with a fenced JSON blob instead of
// prose. DetectMindMap recognizes such answers; everything else is rendered
// as Markdown text.

type MindMapData struct {
	Meta         MindMapMeta         `json:"meta"`
	Introduction MindMapIntroduction `json:"introduction"`
	MindMap      MindMapGraph        `json:"mindMap"`
	StudyTips    *MindMapStudyTips   `json:"studyTips,omitempty"`
	Custom       *MindMapCustom      `json:"customization,omitempty"`
}

type MindMapMeta struct {
	Topic        string `json:"topic"`
	Level        string `json:"level"`
	CreationDate string `json:"creationDate"`
	Version      string `json:"version"`
}

type MindMapIntroduction struct {
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
}

type MindMapGraph struct {
	CentralTopic string         `json:"centralTopic"`
	Topics       []MindMapTopic `json:"topics"`
}

type MindMapTopic struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Subtopics   []MindMapSubtopic `json:"subtopics,omitempty"`
}

type MindMapSubtopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DetectMindMap reports whether content is a structured mind-map payload.
// It trims the content, strips Markdown code-fence markers, and attempts a
// JSON parse; anything unparseable falls back to plain text (ok == false).
func DetectMindMap(content string) (*MindMapData, bool) {
	clean := stripCodeFence(content)
	if !strings.HasPrefix(clean, "{") {
		return nil, false
	}
	var data MindMapData
	if err := json.Unmarshal([]byte(clean), &data); err != nil {
		return nil, false
	}
	if data.MindMap.CentralTopic == "" && len(data.MindMap.Topics) == 0 {
		return nil, false
	}
	return &data, true
}

func stripCodeFence(content string) string {
	clean := strings.TrimSpace(content)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

type MindMapStudyTips struct {
	Strategies          []string `json:"strategies"`
	AdditionalResources []string `json:"additionalResources"`
	StudyOrder          []string `json:"studyOrder"`
}

type MindMapCustom struct {
	ExpansionSuggestions []string `json:"expansionSuggestions"`
	DeepDiveAreas        []string `json:"deepDiveAreas"`
}

// Outline renders the mind map as an indented text tree for the terminal.
func (m *MindMapData) Outline() string {
	var b strings.Builder

	topic := m.Meta.Topic
	if topic == "" {
		topic = m.MindMap.CentralTopic
	}
	fmt.Fprintf(&b, "%s\n", topic)
	if m.Meta.Level != "" {
		fmt.Fprintf(&b, "  level: %s\n", m.Meta.Level)
	}
	if m.Introduction.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Introduction.Description)
	}
	if len(m.Introduction.Objectives) > 0 {
		b.WriteString("\nObjectives:\n")
		for _, o := range m.Introduction.Objectives {
			fmt.Fprintf(&b, "  • %s\n", o)
		}
	}

	fmt.Fprintf(&b, "\n◉ %s\n", m.MindMap.CentralTopic)
	for _, t := range m.MindMap.Topics {
		fmt.Fprintf(&b, "  ├─ %s", t.Name)
		if t.Description != "" {
			fmt.Fprintf(&b, " — %s", t.Description)
		}
		b.WriteString("\n")
		for _, st := range t.Subtopics {
			fmt.Fprintf(&b, "  │    • %s", st.Name)
			if st.Description != "" {
				fmt.Fprintf(&b, " — %s", st.Description)
			}
			b.WriteString("\n")
		}
	}

	if m.StudyTips != nil && len(m.StudyTips.Strategies) > 0 {
		b.WriteString("\nStudy tips:\n")
		for _, s := range m.StudyTips.Strategies {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
