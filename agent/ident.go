package agent

// AgentID identifies an agent within a handoff graph. It is an opaque string
// handle; callers are free to use any stable naming scheme (service name,
// UUID, slug).
type AgentID string

// String returns the underlying identifier.
func (a AgentID) String() string { return string(a) }
