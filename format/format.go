// Package format runs a fix pipeline over the source of a file.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"mibk.dev/phpfix/fixer"
	"mibk.dev/phpfix/token"
)

// Pipe reads PHP source code from in, fixes it using p, and writes the
// result to out. The filename argument is used in error messages.
func Pipe(filename string, out io.Writer, in io.Reader, p *fixer.Pipeline) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	code, _, err := Source(filename, src, p)
	if err != nil {
		return err
	}
	_, err = out.Write(code)
	return err
}

// Source fixes src using p. On failure, no code is returned; the
// result, if any, tells which fixers faulted.
func Source(filename string, src []byte, p *fixer.Pipeline) ([]byte, *fixer.Result, error) {
	s, err := token.Tokenize(bytes.NewReader(src))
	var se *token.ScanError
	if errors.As(err, &se) {
		return nil, nil, fmt.Errorf("%s:%v: %v", filename, se.Pos, se.Err)
	} else if err != nil {
		return nil, nil, err
	}

	res := p.Run(s)
	if res.Status == fixer.Failed {
		return nil, res, fmt.Errorf("%s: %w", filename, res.Err)
	}
	if res.Status == fixer.Unchanged {
		return src, res, nil
	}
	var b bytes.Buffer
	if _, err := s.WriteTo(&b); err != nil {
		return nil, res, err
	}
	return b.Bytes(), res, nil
}
