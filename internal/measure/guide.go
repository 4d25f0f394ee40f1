package measure

import (
	_ "embed"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed guide.yaml
var guideYAML []byte

// GuideDocument describes the available measurements.
type GuideDocument struct {
	Measurements map[string]string `json:"measurements" yaml:"measurements"`
	Notes        []string          `json:"notes" yaml:"notes"`
}

var guide = loadGuide()

func loadGuide() GuideDocument {
	var doc GuideDocument
	if err := yaml.Unmarshal(guideYAML, &doc); err != nil {
		// Embedded file, can only fail at development time
		panic("failed to unmarshal embedded guide.yaml: " + err.Error())
	}
	return doc
}

// Guide returns a copy of the static measurement guide.
func Guide() GuideDocument {
	return GuideDocument{
		Measurements: maps.Clone(guide.Measurements),
		Notes:        slices.Clone(guide.Notes),
	}
}
