package auth

// Identity is what an OAuth provider asserts about the person who signed
// in. It carries facts only; mapping it to a local user is the resolver's
// job.
type Identity struct {
	Provider       string // registry name, e.g. "google"
	ProviderUserID string // provider-scoped subject (sub)
	Email          string
	EmailVerified  bool
}
