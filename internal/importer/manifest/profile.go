package manifest

import "strings"

// Profile describes the column layout of a deposit manifest export.
// Adding a new distributor format is adding a Profile to profiles.
type Profile struct {
	Name        string
	ISBNCol     string
	QuantityCol string
	DescCol     string // optional
}

func (p Profile) requiredCols() []string {
	return []string{p.ISBNCol, p.QuantityCol}
}

// profiles is tried in order against every row until one matches as a header.
var profiles = []Profile{
	{
		Name:        "wom",
		ISBNCol:     "ISBN",
		QuantityCol: "Quantity",
		DescCol:     "Description",
	},
	{
		Name:        "distributor",
		ISBNCol:     "EAN",
		QuantityCol: "Qté",
		DescCol:     "Titre",
	},
	{
		Name:        "dilicom",
		ISBNCol:     "EAN13",
		QuantityCol: "Quantite",
		DescCol:     "Libelle",
	},
}

// Profiles lists the supported format names.
func Profiles() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}

	return names
}

// headerKey folds a header cell so "Qté ", "QTÉ" and "qté" match the same column.
func headerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
