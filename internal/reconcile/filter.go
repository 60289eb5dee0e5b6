package reconcile

import "github.com/davidem/ecsfleet/internal/platform/seeweb"

// OwnedBy returns the servers whose notes field equals tag.
//
// Equality is exact: no prefix, wildcard, or case-insensitive matching.
// The notes annotation is the only membership mechanism the provider
// offers, and a fuzzy match could leak nodes across fleets or terminate
// unrelated infrastructure.
func OwnedBy(servers []seeweb.Server, tag string) []seeweb.Server {
	var owned []seeweb.Server
	for _, s := range servers {
		if s.Notes == tag {
			owned = append(owned, s)
		}
	}
	return owned
}
