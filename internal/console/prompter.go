// Package console reads interactive input from the terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/vestio/internal/interfaces"
)

// Prompter reads line-oriented answers from an input stream.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter creates a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) interfaces.Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Prompt prints the label and returns the next line of input with
// surrounding whitespace removed.
func (p *Prompter) Prompt(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
