package constant

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const CtxKeyPrincipal ContextKey = "principal"

// User roles. Authorization downstream assumes this closed set.
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)
