package log

import (
	"math/rand"
	"sync"
	"time"

	"github.com/fatih/color"
)

var colorCache sync.Map

func GetColor(c color.Attribute) *color.Color {
	cc, _ := colorCache.LoadOrStore(c, color.New(c))
	return cc.(*color.Color)
}

func RandomColor() color.Attribute {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return color.Attribute(int(color.FgRed) + r.Intn(6))
}
