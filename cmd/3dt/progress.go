package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

// truncateString truncates the input string to the specified max length.
// If truncation occurs, it prepends "..." to indicate the string has been shortened.
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func percent(done, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}

// unpackMessage formats one extraction progress update to fit width columns.
func unpackMessage(width int, file string, written, size int64, n, total int) string {
	fixedPart := fmt.Sprintf(" [%d/%d] ", n, total)
	suffixPart := fmt.Sprintf(" - %.2f%%", percent(written, size))

	availableSpace := width - len(fixedPart) - len(suffixPart) - 6
	if availableSpace < 10 {
		availableSpace = 10
	}
	return fixedPart + truncateString(file, availableSpace) + suffixPart
}

// CreateProgressCallback returns an ExtractionProgressCallback that updates the spinner's message.
func CreateProgressCallback(spinner *yacspin.Spinner) option.ExtractionProgressCallback {
	return func(currentFilename string, bytesTransferred, totalBytes int64, currentFileNumber, totalFileCount int) {
		spinner.Message(unpackMessage(terminalWidth(), currentFilename, bytesTransferred, totalBytes, currentFileNumber, totalFileCount))
	}
}

// InitializeSpinner sets up and starts the yacspin spinner.
func InitializeSpinner(suffix string) (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		Suffix:            suffix,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	return spinner, nil
}

// finishSpinner stops spinner with a success or failure message depending on err.
func finishSpinner(spinner *yacspin.Spinner, err error, success string) {
	if spinner == nil {
		return
	}
	if err != nil {
		spinner.StopFailMessage(" " + err.Error())
		_ = spinner.StopFail()
		return
	}
	spinner.StopMessage(success)
	_ = spinner.Stop()
}
