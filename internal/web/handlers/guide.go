package handlers

import (
	_ "embed"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/photo-analyzer/internal/measure"
)

//go:embed openapi.yaml
var openAPIYAML []byte

var openAPIDocument = loadOpenAPI()

func loadOpenAPI() map[string]any {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		panic("failed to unmarshal embedded openapi.yaml: " + err.Error())
	}
	return doc
}

// MeasurementsGuide describes the measurements returned by the analysis endpoints.
func MeasurementsGuide(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, measure.Guide())
}

// OpenAPI serves the API description as JSON.
func OpenAPI(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, openAPIDocument)
}
