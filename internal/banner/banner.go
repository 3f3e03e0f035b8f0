// Package banner renders the startup banner shown on stderr.
package banner

import "fmt"

const art = `
  _
 | |__  _ __ ___  _ __ ___
 | '_ \| '_ ' _ \| '_ ' _ \
 | | | | | | | | | | | | | |
 |_| |_|_| |_| |_|_| |_| |_|
`

// Banner returns the banner with the version line.
func Banner(version string) string {
	return fmt.Sprintf("%s  discrete hidden Markov models  %s\n\n", art, version)
}
