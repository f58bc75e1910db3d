package tools

import (
	"math/rand"
	"strings"
	"time"
)

const digits = "0123456789"

func RandomNumStr(length int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(digits[r.Intn(len(digits))])
	}
	return b.String()
}
