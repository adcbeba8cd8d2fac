package domain

import "strings"

// ResolveZone picks the zone id for a normalized row.
//
// An explicit zone id on the row always wins. Otherwise the first zone (in
// the order given) with any keyword contained in the row's search string is
// taken; keywords are plain substrings, not tokens. As a last resort a zone
// whose name contains the row's zone hint matches. No match resolves to "".
func ResolveZone(zones []Zone, row ImportRow) string {
	if row.ZoneID != "" {
		return row.ZoneID
	}

	search := row.SearchString()
	for _, z := range zones {
		for _, kw := range z.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(search, kw) {
				return z.ID
			}
		}
	}

	hint := strings.ToLower(strings.TrimSpace(row.ZoneHint))
	if hint == "" {
		return ""
	}
	for _, z := range zones {
		if strings.Contains(strings.ToLower(z.Name), hint) {
			return z.ID
		}
	}

	return ""
}
