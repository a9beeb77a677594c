package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const spinnerInterval = 100 * time.Millisecond

// Indicator reports the progress of a single long running step.
// A disabled Indicator does nothing, so callers never need to check.
type Indicator struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewIndicator returns an indicator writing to w. It is only active when
// caps reports a terminal.
func NewIndicator(w io.Writer, caps TerminalCapabilities) *Indicator {
	return &Indicator{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Enabled reports whether the indicator writes anything.
func (i *Indicator) Enabled() bool {
	return i != nil && i.caps.IsTTY
}

// Start shows the spinner with msg next to it.
func (i *Indicator) Start(msg string) {
	if !i.Enabled() {
		return
	}
	i.spin = spinner.New(spinner.CharSets[i.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(i.w))
	i.spin.Suffix = " " + msg
	if i.caps.SupportsColor {
		_ = i.spin.Color("cyan")
	}
	i.spin.Start()
}

// Succeed stops the spinner and prints a success line.
func (i *Indicator) Succeed(msg string) {
	i.finish(i.symbols.Checkmark, color.FgGreen, msg)
}

// Fail stops the spinner and prints a failure line.
func (i *Indicator) Fail(msg string) {
	i.finish(i.symbols.Failure, color.FgRed, msg)
}

// Stop stops the spinner without a status line.
func (i *Indicator) Stop() {
	if !i.Enabled() || i.spin == nil {
		return
	}
	i.spin.Stop()
	i.spin = nil
}

func (i *Indicator) finish(symbol string, attr color.Attribute, msg string) {
	if !i.Enabled() {
		return
	}
	i.Stop()

	if i.caps.SupportsColor {
		symbol = color.New(attr, color.Bold).Sprint(symbol)
	}
	fmt.Fprintf(i.w, "%s %s\n", symbol, msg)
}
