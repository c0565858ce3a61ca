package track

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"caterhub/store"
)

var (
	// ErrBadRequest indicates a missing or malformed parameter.
	ErrBadRequest = errors.New("missing or malformed parameter")
	// ErrNotFound indicates the order id does not resolve. Only privileged
	// issuance paths surface this; public verification collapses it into
	// ErrUnauthorized so order ids cannot be enumerated.
	ErrNotFound = errors.New("order not found")
	// ErrUnauthorized indicates an absent or mismatched tracking token.
	ErrUnauthorized = errors.New("invalid tracking token")
)

// tokenBytes gives 192 bits of entropy per token.
const tokenBytes = 24

// OrderSnapshot is the read-only view returned to a verified caller. It
// never carries a token.
type OrderSnapshot struct {
	Address        string          `json:"address"`
	DriverLocation *LocationUpdate `json:"driverLocation"`
	DeliveryStatus string          `json:"deliveryStatus"`
}

// Tokens issues and verifies per-order tracking capabilities against the
// durable order store. Customer and driver tokens are independent; one role's
// token never verifies as the other.
type Tokens struct {
	db *store.DB
}

// NewTokens creates a token issuer/verifier backed by db.
func NewTokens(db *store.DB) *Tokens {
	return &Tokens{db: db}
}

// Issue mints a fresh opaque token for the order and role and persists it,
// replacing (and thereby invalidating) any previously issued token for that
// role. driverID is recorded on driver-role issuance and ignored otherwise.
func (t *Tokens) Issue(orderID string, role Role, driverID string) (string, error) {
	orderID = CanonicalOrderID(orderID)
	if orderID == "" {
		return "", ErrBadRequest
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}

	switch role {
	case RoleCustomer:
		err = t.db.SetCustomerToken(orderID, token)
	case RoleDriver:
		err = t.db.SetDriverToken(orderID, driverID, token)
	default:
		return "", ErrBadRequest
	}
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	return token, nil
}

// Verify checks the presented token against the stored one for the order and
// role. On success it returns a snapshot of the order's tracking state. Any
// failure to match — unknown order, no token issued, wrong role, or any
// non-identical string — yields ErrUnauthorized.
func (t *Tokens) Verify(orderID, token string, role Role) (*OrderSnapshot, error) {
	orderID = CanonicalOrderID(orderID)
	if orderID == "" || token == "" {
		return nil, ErrBadRequest
	}

	o, err := t.db.GetOrder(orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}

	var stored *string
	switch role {
	case RoleCustomer:
		stored = o.TrackingToken
	case RoleDriver:
		stored = o.DriverToken
	default:
		return nil, ErrBadRequest
	}
	if stored == nil || *stored == "" {
		return nil, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(token)) != 1 {
		return nil, ErrUnauthorized
	}

	snap := &OrderSnapshot{
		Address:        o.Address,
		DeliveryStatus: o.DeliveryStatus,
	}
	if o.DriverLat != nil && o.DriverLng != nil {
		snap.DriverLocation = &LocationUpdate{Lat: *o.DriverLat, Lng: *o.DriverLng}
	}
	return snap, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
