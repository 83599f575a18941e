package models

// Bank is an entry in the onboarding bank directory
type Bank struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Logo  string `json:"logo" yaml:"logo"`
	Color string `json:"color" yaml:"color"`
}
