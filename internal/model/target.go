package model

// DefaultPort is the Enterprise Server admin port assumed when the targets
// file does not name one.
const DefaultPort = 10086

// HostTarget describes one configured remote host and the regions to query on
// it. Targets are read-only during a run; the slice order of Regions is the
// order fetches are issued in.
type HostTarget struct {
	Host    string   `json:"host" yaml:"host"`
	Port    int      `json:"port" yaml:"port"`
	Canal   string   `json:"canal,omitempty" yaml:"canal,omitempty"`
	Site    string   `json:"site,omitempty" yaml:"site,omitempty"`
	Regions []string `json:"regions" yaml:"regions"`
}

// EffectivePort returns the configured port, or DefaultPort when unset.
func (t HostTarget) EffectivePort() int {
	if t.Port <= 0 {
		return DefaultPort
	}
	return t.Port
}

// Queryable reports whether the engine has anything to fetch for this target.
func (t HostTarget) Queryable() bool {
	return t.Host != "" && len(t.Regions) > 0
}

// Credentials carries the user/password pair offered to the authenticator.
// A zero value means anonymous fetching.
type Credentials struct {
	User     string
	Password string
}

// Valid reports whether both fields are present. The engine only attempts
// authentication with valid credentials.
func (c Credentials) Valid() bool {
	return c.User != "" && c.Password != ""
}
