// Package repl implements the interactive command loop: read a line,
// execute it, print the result or the error, continue until EXIT or EOF.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"onetable/executor"
	"onetable/version"
)

const banner = `Commands:
  CREATE DATABASE dbname
  USE dbname
  SHOW DATABASES
  DROP DATABASE dbname
  INSERT INTO table VALUES (1, 'name')
  SELECT * FROM table
  SELECT * FROM table WHERE id = 1
  UPDATE table SET name = 'newname' WHERE id = 1
  DELETE FROM table WHERE id = 1
  EXIT to quit`

// REPL drives one session over a line-oriented reader/writer pair.
type REPL struct {
	sess     *executor.Session
	in       *bufio.Scanner
	out      io.Writer
	errOut   io.Writer
	logLevel int
}

// maxLineLen lifts bufio.Scanner's default 64KiB token limit so an
// over-long command line fails as a command, not as a dead session.
const maxLineLen = 1 << 20

// New creates a REPL. Results go to out, per-line errors to errOut.
func New(sess *executor.Session, in io.Reader, out, errOut io.Writer, logLevel int) *REPL {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	return &REPL{
		sess:     sess,
		in:       sc,
		out:      out,
		errOut:   errOut,
		logLevel: logLevel,
	}
}

// Run prints the banner and processes lines until EXIT or end of input.
// Every error is reported and the loop continues; nothing is fatal here.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, version.String())
	fmt.Fprintln(r.out, banner)

	for {
		r.prompt()
		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil // EOF ends the session
		}
		line := r.in.Text()
		if line == "EXIT" {
			return nil
		}
		if r.logLevel >= 1 {
			log.Printf("execute: %s", line)
		}
		res, err := r.sess.Execute(line)
		if err != nil {
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
			continue
		}
		if res != nil {
			if text := res.Render(); text != "" {
				fmt.Fprintln(r.out, text)
			}
		}
	}
}

func (r *REPL) prompt() {
	if name := r.sess.CurrentName(); name != "" {
		fmt.Fprintf(r.out, "%s> ", name)
	} else {
		fmt.Fprint(r.out, "No DB> ")
	}
}
