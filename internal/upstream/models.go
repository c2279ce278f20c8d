// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

// ModelInfo describes a research model's capabilities for the catalog
// endpoint and the CLI.
type ModelInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	BestFor     string `json:"best_for" yaml:"best_for"`
	Cost        string `json:"cost" yaml:"cost"`
	Speed       string `json:"speed" yaml:"speed"`
}

var modelCatalog = map[string]ModelInfo{
	"o3-deep-research": {
		Name:        "O3 Deep Research",
		Description: "Most comprehensive research model with advanced reasoning capabilities",
		BestFor:     "Complex analysis, detailed reports, comprehensive research",
		Cost:        "Higher",
		Speed:       "Slower",
	},
	"o4-mini-deep-research": {
		Name:        "O4 Mini Deep Research",
		Description: "Faster, cost-effective research model for quicker insights",
		BestFor:     "Quick research, initial exploration, cost-sensitive tasks",
		Cost:        "Lower",
		Speed:       "Faster",
	},
}

// Models returns the catalog of research models. The map is copied so
// callers cannot mutate the catalog.
func Models() map[string]ModelInfo {
	out := make(map[string]ModelInfo, len(modelCatalog))
	for k, v := range modelCatalog {
		out[k] = v
	}
	return out
}

// KnownModel reports whether the model name is in the catalog.
func KnownModel(model string) bool {
	_, ok := modelCatalog[model]
	return ok
}
