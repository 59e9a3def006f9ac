package models

// Country is shared reference data keyed by ISO 3166-1 alpha-2 code.
// Adjacency between countries lives in a separate symmetric relation and is
// consumed when validating a competition's location.
type Country struct {
	Code        string `json:"code"`
	NameEN      string `json:"name_en"`
	NameES      string `json:"name_es"`
	Active      bool   `json:"active"`
}
