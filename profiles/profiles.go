// Package profiles defines pre-configured endpoint profiles for the German
// library union catalogs reachable over SRU.
package profiles

import (
	"fmt"
	"sort"
	"strings"
)

// Profile describes one catalog endpoint.
type Profile struct {
	// Name is the short identifier used on the command line.
	Name string
	// URL is the base URL of the SRU endpoint.
	URL string
	// DisplayName is the human-readable catalog name.
	DisplayName string
	// Description says what the catalog covers.
	Description string
	// Region is the geographic or institutional coverage.
	Region string
	// SRU20 states whether the endpoint supports SRU 2.0 (required for
	// faceted search).
	SRU20 bool
}

// DefaultProfile is the profile used when none is selected.
const DefaultProfile = "swb"

var profiles = map[string]Profile{
	"swb": {
		Name:        "swb",
		URL:         "https://sru.k10plus.de/swb",
		DisplayName: "SWB (Südwestdeutscher Bibliotheksverbund)",
		Description: "Library network covering Baden-Württemberg, Saarland, and Saxony",
		Region:      "Baden-Württemberg, Saarland, Sachsen",
		SRU20:       true,
	},
	"k10plus": {
		Name:        "k10plus",
		URL:         "https://sru.k10plus.de/opac-de-627",
		DisplayName: "K10plus Verbundkatalog",
		Description: "Union catalog covering northern and southwestern Germany",
		Region:      "Norddeutschland, Südwestdeutschland",
		SRU20:       true,
	},
	"gvk": {
		Name:        "gvk",
		URL:         "https://sru.gbv.de/gvk",
		DisplayName: "GBV (Gemeinsamer Verbundkatalog)",
		Description: "Common union catalog of the GBV library network",
		Region:      "Norddeutschland",
		SRU20:       true,
	},
	"dnb": {
		Name:        "dnb",
		URL:         "https://services.dnb.de/sru/dnb",
		DisplayName: "DNB (Deutsche Nationalbibliothek)",
		Description: "German National Library catalog",
		Region:      "Deutschland (National)",
		SRU20:       false,
	},
	"bvb": {
		Name:        "bvb",
		URL:         "https://sru.bib-bvb.de/bvb",
		DisplayName: "BVB (Bibliotheksverbund Bayern)",
		Description: "Bavarian Library Network",
		Region:      "Bayern",
		SRU20:       false,
	},
	"hebis": {
		Name:        "hebis",
		URL:         "https://sru.hebis.de/sru",
		DisplayName: "HeBIS (Hessisches BibliotheksInformationsSystem)",
		Description: "Library network for Hesse and parts of Rhineland-Palatinate",
		Region:      "Hessen, Rheinland-Pfalz (teilweise)",
		SRU20:       false,
	},
}

// Get returns the profile with the given name (case-insensitive).
func Get(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// List returns all profiles sorted by name.
func List() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
