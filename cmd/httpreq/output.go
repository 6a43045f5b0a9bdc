package main

import (
	"fmt"
	"io"

	"http-req/application/http"

	"github.com/fatih/color"
)

type printer struct {
	w io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
	bold   *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:      w,
		green:  color.New(color.FgGreen, color.Bold),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) statusColor(code http.StatusCode) *color.Color {
	switch {
	case code.IsSuccess():
		return p.green
	case code.IsRedirect():
		return p.yellow
	case code.IsClientErr(), code.IsServerErr():
		return p.red
	}
	return p.cyan
}

func (p *printer) status(res *http.Response) {
	fmt.Fprintln(p.w, p.statusColor(res.StatusCode()).Sprint(res.Status.String()))
}

func (p *printer) headers(res *http.Response) {
	for _, f := range res.Headers.Fields() {
		fmt.Fprintf(p.w, "%s: %s\n", p.bold.Sprint(f[0]), f[1])
	}
}
