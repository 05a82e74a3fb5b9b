package catalog

import "bridge-voice-backend/internal/intake"

// Resource is one informational program read back to the caller.
type Resource struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Requirements string `json:"requirements,omitempty"`
}

// resources is read in this order on every call.
var resources = []Resource{
	{
		Name:         "LIHEAP (Energy Bill Help)",
		Description:  "LIHEAP helps pay heating or cooling bills. Based on your ZIP and income, you may qualify. Apply through your state LIHEAP office, and I can text the link.",
		Link:         "https://www.acf.hhs.gov/ocs/energy-assistance",
		Requirements: "photo ID, proof of address, recent bill, income proof",
	},
	{
		Name:        "Housing Resources",
		Description: "HUD helps people find rental and affordable housing in each state. You can search or apply on your state's HUD page.",
		Link:        "https://www.hud.gov/states",
	},
	{
		Name:        "Unclaimed Benefits Finder",
		Description: "This site checks for other programs: food, health, cash aid, or tax credits. It's quick and private.",
		Link:        "https://www.benefits.gov/benefit-finder",
	},
}

// Resources returns the programs to offer a caller. The list is the same for
// every need.
func Resources(_ intake.NeedType) []Resource {
	return append([]Resource(nil), resources...)
}
