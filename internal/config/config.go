// Package config provides the application configuration: the model list, the
// active OCR and solving models, image host credentials, and the storage
// backend selection.
package config

// ModelType classifies what a configured model can consume.
//
//	mm   - multimodal: solves directly from images
//	vl   - vision-language: reads images, used for OCR
//	text - text-only: requires OCR routing for photo questions
type ModelType string

const (
	ModelMultimodal ModelType = "mm"
	ModelVision     ModelType = "vl"
	ModelText       ModelType = "text"
)

// Model is one configured model endpoint. Title is the user-facing unique
// name the active-model settings refer to; Model is the wire identifier sent
// to the API.
type Model struct {
	Title    string    `yaml:"title"`
	Type     ModelType `yaml:"type"`
	Model    string    `yaml:"model"`
	APIBase  string    `yaml:"apiBase"`
	APIKey   string    `yaml:"apiKey"`
	Provider string    `yaml:"provider,omitempty"`
}

// ImageHost configures the image hosting service used for photo uploads.
type ImageHost struct {
	Type    string `yaml:"type"`
	APIKey  string `yaml:"apiKey"`
	APIBase string `yaml:"apiBase,omitempty"`
}

// Storage selects the key-value backend. Backend is one of "file", "sqlite",
// or "memory"; Path is the base directory (file) or database file (sqlite).
type Storage struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// Config is the root configuration document.
type Config struct {
	Models             []Model   `yaml:"models"`
	ActiveOCRModel     string    `yaml:"activeOCRModel"`
	ActiveSolvingModel string    `yaml:"activeSolvingModel"`
	ImageHost          ImageHost `yaml:"imageHost"`
	Storage            Storage   `yaml:"storage"`
}

// ModelByTitle returns the configured model with the given title, or nil.
func (c *Config) ModelByTitle(title string) *Model {
	for i := range c.Models {
		if c.Models[i].Title == title {
			return &c.Models[i]
		}
	}
	return nil
}
