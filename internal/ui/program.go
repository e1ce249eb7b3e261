package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/plexgdm/internal/protocol"
)

// Printer writes styled output for one-shot commands.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer writing to w, or stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	h := NewHeader(title, command, params...)
	h.Width = p.width
	p.Println(h.Render())
}

// PrintServers prints the server table
func (p *Printer) PrintServers(servers []protocol.ServerRecord) {
	p.Println(RenderServerTable(servers))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(RenderSuccess(title, details, p.width))
}

// PrintFailure prints a failure result box
func (p *Printer) PrintFailure(title string, details ...Param) {
	p.Println(RenderFailure(title, details, p.width))
}
