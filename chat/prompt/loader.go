package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/pitch.txt
	pitchRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System string
	Pitch  string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System: strings.TrimSpace(systemRaw),
		Pitch:  strings.TrimSpace(pitchRaw),
	}
}
