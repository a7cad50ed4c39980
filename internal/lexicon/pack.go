// Package lexicon holds domain packs: vocabularies used to detect a
// specialized topic on a board and to expand keywords with related terms.
package lexicon

import (
	"strings"
)

// Pack is a domain vocabulary plus the themes, next steps, and suggestions
// offered when the domain is detected.
type Pack struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Terms       []string `yaml:"terms"`
	Themes      []string `yaml:"themes"`
	NextSteps   []string `yaml:"next_steps"`
	Suggestions []string `yaml:"suggestions"`
}

// Detect reports whether any term occurs as a substring of the lower-cased
// text. Matching is deliberately loose: "eco" matches inside "economy".
func (p *Pack) Detect(text string) bool {
	t := strings.ToLower(text)
	for _, term := range p.Terms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}

// SustainableFashionName names the built-in pack.
const SustainableFashionName = "sustainable-fashion"

// SustainableFashion returns the built-in sustainable fashion pack.
func SustainableFashion() *Pack {
	return &Pack{
		Name:     SustainableFashionName,
		Category: "Sustainable Fashion",
		Terms: []string{
			"sustainable", "sustainability", "eco", "eco-friendly", "green", "ethical",
			"circular", "circularity", "recycle", "recycled", "upcycle", "upcycled",
			"biodegradable", "low-impact", "carbon", "footprint", "climate", "lca",
			"supply", "supply-chain", "traceability", "transparency", "fair", "fair-trade",
			"textile", "garment", "apparel", "fashion", "clothing", "cotton", "organic",
			"gots", "tencel", "dye", "dyes", "microfiber", "passport", "digital-passport",
			"take-back", "repair", "alteration", "resale", "secondhand",
		},
		Themes: []string{
			"Sustainable fashion and circular design",
			"Ethical sourcing and supply-chain transparency",
			"Low‑impact materials and eco-friendly dyeing",
		},
		NextSteps: []string{
			"Run an LCA and publish a sustainability scorecard for a key product line",
			"Pilot a take-back + resale program and measure diversion from landfill",
			"Transition to certified fibers (e.g., GOTS, TENCEL) and verify supplier compliance",
			"Introduce repair/alteration services and track extended product lifespan metrics",
			"Add digital product passports to improve traceability and care guidance",
		},
		Suggestions: []string{
			"Pilot a take-back program for end-of-life garments to enable closed-loop recycling",
			"Introduce a repair/alteration service to extend product lifespan and reduce waste",
			"Shift to certified low-impact materials (GOTS organic cotton, TENCEL, recycled fibers)",
			"Add digital product passports for traceability, care instructions, and end-of-life options",
			"Run a lifecycle assessment (LCA) on a hero product and publish the impact reductions",
			"Implement microfibre-catching and low-water dye processes in production",
			"Launch a resale/secondhand channel to encourage circular consumption",
		},
	}
}
