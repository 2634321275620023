package main

import (
	"io"

	"github.com/echoman/robots-in-go/pkg/journal"
)

func newTestJournal(w io.Writer) *journal.Journal {
	l := journal.NewLogger()
	l.SetWriter(w)
	return journal.New(l, nil)
}
