package internal

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// UIManager handles user interface concerns (status output, spinners)
type UIManager interface {
	NewSpinner(description string) Spinner

	// Verbose output
	Verbose(format string, args ...interface{})

	// Status messages
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// Spinner abstracts an indeterminate progress indicator
type Spinner interface {
	Describe(description string)
	Advance()
	Finish()
}

// StandardUIManager handles normal UI operations
type StandardUIManager struct {
	verbose bool
	quiet   bool
}

func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
	}
}

func (ui *StandardUIManager) NewSpinner(description string) Spinner {
	if ui.quiet {
		return &SilentSpinner{}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &VisibleSpinner{bar: bar}
}

// Verbose Output Methods
func (ui *StandardUIManager) Verbose(format string, args ...interface{}) {
	if ui.verbose {
		fmt.Printf(format, args...)
	}
}

// Status Message Methods
func (ui *StandardUIManager) Printf(format string, args ...interface{}) {
	if !ui.quiet {
		fmt.Printf(format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...interface{}) {
	if !ui.quiet {
		fmt.Println(args...)
	}
}

// VisibleSpinner wraps the actual progress bar
type VisibleSpinner struct {
	bar *progressbar.ProgressBar
}

func (v *VisibleSpinner) Describe(description string) {
	v.bar.Describe(description)
}

func (v *VisibleSpinner) Advance() {
	_ = v.bar.Add(1)
}

func (v *VisibleSpinner) Finish() {
	_ = v.bar.Finish()
}

// SilentSpinner implements a no-op spinner for quiet mode
type SilentSpinner struct{}

func (s *SilentSpinner) Describe(description string) {}
func (s *SilentSpinner) Advance()                    {}
func (s *SilentSpinner) Finish()                     {}
