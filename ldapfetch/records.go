package ldapfetch

import "github.com/go-ldap/ldap/v3"

// EntryType is the record type of an actual directory entry. Search
// responses can also carry marker records (referrals, searchResDone); those
// are dropped by Process.
const EntryType = "searchResEntry"

// SearchRecord is the boundary representation of one raw search result:
// plain strings and string slices only, so that downstream processing never
// sees library types.
type SearchRecord struct {
	Type       string              `json:"type"`
	DN         string              `json:"dn"`
	Attributes map[string][]string `json:"attributes"`
}

func recordsFromEntries(entries []*ldap.Entry) []SearchRecord {
	records := make([]SearchRecord, 0, len(entries))
	for _, entry := range entries {
		attrs := make(map[string][]string, len(entry.Attributes))
		for _, attr := range entry.Attributes {
			attrs[attr.Name] = append([]string(nil), attr.Values...)
		}
		records = append(records, SearchRecord{
			Type:       EntryType,
			DN:         entry.DN,
			Attributes: attrs,
		})
	}
	return records
}
