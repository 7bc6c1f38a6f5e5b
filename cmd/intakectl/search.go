// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"flag"
	"strconv"

	"github.com/danielhkuo/exam-intake/intake"
	"github.com/danielhkuo/exam-intake/models"
)

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("search: want exactly one passport number")
	}

	state := a.lookup(ctx, fs.Arg(0))
	if len(state.Query) < intake.MinQueryLength {
		a.warn("type at least 4 characters to search")
		return nil
	}
	if state.NotFound {
		a.warn("no registration found for %s", state.Query)
		return nil
	}

	a.heading("%s: %d registration(s)", state.Query, len(state.Results))
	a.printCandidates(state.Results)
	return nil
}

func (a *app) printCandidates(records []models.CandidateRecord) {
	table := a.table("#", "Row", "Exam Date", "Reg No", "Test No", "Full Name", "Sex", "DOB", "Employer", "Position", "Job Line")
	for i, rec := range records {
		table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rec.Row),
			rec.ExamDate,
			orDash(string(rec.RegNo)),
			orDash(string(rec.TestNo)),
			rec.FullName,
			orDash(string(rec.Sex)),
			models.FormatDayMonthYear(rec.DOB),
			rec.Employer,
			rec.Position,
			rec.JobLine,
		})
	}
	table.Render()
}
