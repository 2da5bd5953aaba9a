// Package cli implements the interactive menu front end of dhash.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/theflywheel/dhash"
)

const menu = `______________________________________________________________
1.INSERT
2.SEARCH
3.DELETE
4.COUNT
5.CAPACITY
0.EXIT
Enter your choice: `

// errQuit ends the loop on end of input.
var errQuit = errors.New("quit")

type session struct {
	store dhash.Store
	in    *bufio.Scanner
	out   io.Writer
}

// Run reads menu choices and whitespace separated keys and values from in
// until the exit choice or end of input, writing prompts and results to out.
func Run(store dhash.Store, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	s := &session{store: store, in: sc, out: out}

	for {
		fmt.Fprint(out, menu)
		tok, err := s.next()
		if err != nil {
			return s.end(err)
		}
		choice, err := strconv.Atoi(tok)
		if err != nil {
			fmt.Fprintln(out, "Enter correct option!")
			continue
		}
		if choice == 0 {
			return nil
		}
		if err := s.dispatch(choice); err != nil {
			return s.end(err)
		}
	}
}

func (s *session) dispatch(choice int) error {
	switch choice {
	case 1:
		key, err := s.prompt("Enter key: ")
		if err != nil {
			return err
		}
		value, err := s.prompt("Enter value: ")
		if err != nil {
			return err
		}
		if err := s.store.Insert(key, value); err != nil {
			fmt.Fprintf(s.out, "\nInsert failed: %v\n", err)
			return nil
		}
		fmt.Fprintln(s.out, "\nItem inserted.")
	case 2:
		key, err := s.prompt("Enter key: ")
		if err != nil {
			return err
		}
		if v, ok := s.store.Search(key); ok {
			fmt.Fprintf(s.out, "\nValue : %s\n", v)
		} else {
			fmt.Fprintln(s.out, "\nKey is not in the table.")
		}
	case 3:
		key, err := s.prompt("Enter key: ")
		if err != nil {
			return err
		}
		if s.store.Delete(key) {
			fmt.Fprintln(s.out, "\nItem deleted.")
		} else {
			fmt.Fprintln(s.out, "\nItem not in the table.")
		}
	case 4:
		fmt.Fprintf(s.out, "Current count of the table is : %d.\n\n", s.store.Count())
	case 5:
		fmt.Fprintf(s.out, "Current size of the table is : %d.\n\n", s.store.Capacity())
	default:
		fmt.Fprintln(s.out, "Enter correct option!")
	}
	return nil
}

func (s *session) prompt(msg string) (string, error) {
	fmt.Fprint(s.out, msg)
	return s.next()
}

func (s *session) next() (string, error) {
	if s.in.Scan() {
		return s.in.Text(), nil
	}
	if err := s.in.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", errQuit
}

// end maps end of input to a clean exit.
func (s *session) end(err error) error {
	if errors.Is(err, errQuit) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}
