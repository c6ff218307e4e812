package utils

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/jedib0t/go-pretty/v6/text"
)

func DrawBanner() {
	banner := figure.NewFigure("costdrill", "slant", true)
	fmt.Println(text.FgHiCyan.Sprint(banner.String()))
}
