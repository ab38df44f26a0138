// Package progressbar renders xatlas generation progress on a terminal.
package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

const defaultTermWidth = 80

// Bar shows the current stage of one Generate call. On a terminal it
// redraws a single line; on any other writer it prints one line per stage
// when the stage completes, so logs stay readable.
type Bar struct {
	w       io.Writer
	name    string
	tty     bool
	width   int
	started time.Time

	category xatlas.ProgressCategory
	percent  int
	active   bool
}

// New returns a bar labelled name that writes to w.
func New(w io.Writer, name string) *Bar {
	b := &Bar{w: w, name: name, width: defaultTermWidth, started: time.Now()}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			b.width = width
		}
	}
	return b
}

// Update records a report. Its signature matches xatlas.ProgressFunc.
func (b *Bar) Update(category xatlas.ProgressCategory, percent int) {
	b.category, b.percent, b.active = category, percent, true

	if b.tty {
		fmt.Fprint(b.w, "\r\033[2K", b.String())
		return
	}
	if percent == 100 {
		fmt.Fprintln(b.w, b.String())
	}
}

// Done finishes the line started on a terminal.
func (b *Bar) Done() {
	if b.tty && b.active {
		fmt.Fprintln(b.w)
	}
}

// String renders the bar for the last report.
func (b *Bar) String() string {
	var pre, mid, suf strings.Builder

	if b.name != "" {
		fmt.Fprintf(&pre, "%s ", b.name)
	}
	fmt.Fprintf(&pre, "[%d/%d] %-22s %3d%% ", int(b.category)+1, xatlas.ProgressCategoryCount, b.category, b.percent)

	fmt.Fprintf(&suf, " %s", time.Since(b.started).Round(time.Millisecond))

	// 2 boundary characters
	f := b.width - len([]rune(pre.String())) - suf.Len() - 2
	if f > 0 {
		n := f * b.percent / 100
		mid.WriteString("▕")
		mid.WriteString(strings.Repeat("█", n))
		mid.WriteString(strings.Repeat(" ", f-n))
		mid.WriteString("▏")
	}

	return pre.String() + mid.String() + suf.String()
}
