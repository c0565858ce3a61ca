package track

import "strings"

// LocationUpdate is the payload fanned out to tracking subscribers.
type LocationUpdate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Role distinguishes the two tracking-link audiences. Tokens are issued and
// verified per role; a driver token never satisfies customer verification.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
)

// CanonicalOrderID normalizes an order identifier. Both the publish and
// subscribe paths must use this form or fan-out silently fails to match.
func CanonicalOrderID(s string) string {
	return strings.TrimSpace(s)
}
