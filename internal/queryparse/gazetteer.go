package queryparse

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var gazetteerYAML []byte

var (
	gazetteerOnce sync.Once
	gazetteer     []string
)

// Gazetteer returns the static list of major city names the parser can pick
// out of a free-text query. Loaded once from the embedded data file.
func Gazetteer() []string {
	gazetteerOnce.Do(func() {
		var doc struct {
			Cities []string `yaml:"cities"`
		}
		if err := yaml.Unmarshal(gazetteerYAML, &doc); err != nil {
			panic("queryparse: embedded gazetteer is malformed: " + err.Error())
		}
		gazetteer = doc.Cities
	})
	return gazetteer
}
