package source

import (
	// sources register themselves with the adapter
	_ "github.com/yaotthaha/ipsetd/source/mqtt"
	_ "github.com/yaotthaha/ipsetd/source/redis"
)

func Register() {
}
