package constant

import "fmt"

const Version = "v0.1.0"

var Commit = ""

func GetVersion() string {
	if Commit != "" {
		return fmt.Sprintf("ipsetd version %s, commit: %s", Version, Commit)
	}
	return fmt.Sprintf("ipsetd version %s", Version)
}
