// Package identity supplies the ABOUT capability's static metadata,
// mirroring the teacher's id name/id author lines in
// internal/uci/uci.go's handleUCI.
package identity

import "fmt"

// Info is the engine's self-reported identity.
type Info struct {
	Name    string
	Version string
	Author  string
	Country string
	WWW     string
	Email   string
}

// Default is this build's identity.
var Default = Info{
	Name:    "gomoku-core",
	Version: "1.0",
	Author:  "hailam",
}

// String formats Info per spec.md §6's ABOUT response grammar: always
// name/version/author, with country/www/email appended only when set.
func (i Info) String() string {
	s := fmt.Sprintf("name=%q, version=%q, author=%q", i.Name, i.Version, i.Author)
	if i.Country != "" {
		s += fmt.Sprintf(", country=%q", i.Country)
	}
	if i.WWW != "" {
		s += fmt.Sprintf(", www=%q", i.WWW)
	}
	if i.Email != "" {
		s += fmt.Sprintf(", email=%q", i.Email)
	}
	return s
}
