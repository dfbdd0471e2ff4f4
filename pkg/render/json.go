package render

import (
	"encoding/json"
)

// JSON renders sections as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Version  string        `json:"version"`
	Sections []jsonSection `json:"sections"`
}

type jsonSection struct {
	Type string  `json:"type"`
	Data Section `json:"data"`
}

// Render formats all sections as JSON.
func (j *JSON) Render(sections ...Section) string {
	out := jsonOutput{
		Version:  "1",
		Sections: make([]jsonSection, 0, len(sections)),
	}
	for _, s := range sections {
		out.Sections = append(out.Sections, jsonSection{Type: s.Type(), Data: s})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
