package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Prompter asks the user for input
type Prompter interface {
	Select(title string, options []string) (string, error)
	Input(title string) (string, error)
}

// PtermPrompter implements Prompter with pterm interactive printers
type PtermPrompter struct{}

// Select implements Prompter
func (PtermPrompter) Select(title string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithDefaultText(title).WithOptions(options).Show()
}

// Input implements Prompter
func (PtermPrompter) Input(title string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(title).Show()
}

// Messages shown by ReadNumber on bad input
const (
	MsgBlankInput  = "You haven't typed anything here"
	MsgNotANumber  = "Your input is incorrect, please type in numbers only"
	MsgNotPositive = "The number must be greater than zero"
)

// ReadNumber asks until the answer is a positive integer. An empty answer
// keeps current when allowBlank is set. Only prompter errors end the loop.
func ReadNumber(p Prompter, out io.Writer, message string, current int, allowBlank bool) (int, error) {
	for {
		answer, err := p.Input(message)
		if err != nil {
			return 0, err
		}

		answer = strings.TrimSpace(answer)
		if answer == "" {
			if allowBlank {
				return current, nil
			}
			fmt.Fprintln(out, MsgBlankInput)
			continue
		}

		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(out, MsgNotANumber)
			continue
		}
		if n <= 0 {
			fmt.Fprintln(out, MsgNotPositive)
			continue
		}
		return n, nil
	}
}
