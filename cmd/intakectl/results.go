// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/results"
	"github.com/dustin/go-humanize"
)

func (a *app) results(ctx context.Context, args []string) error {
	var (
		start, end, sortKey string
		exportDir, employer string
		filter              results.Filter
		desc, save          bool
		marks               assignments
	)

	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&start, "start", a.today(), "First exam date")
	fs.StringVar(&end, "end", "", "Last exam date (default: -start)")
	fs.StringVar(&filter.TestNo, "testno", "", "Test number contains")
	fs.StringVar(&filter.Position, "position", "", "Position contains")
	fs.StringVar(&filter.JobLine, "jobline", "", "Job line contains")
	fs.StringVar(&filter.Remark, "remark", results.FilterAll, "Result: ALL, EMPTY or a remark")
	fs.StringVar(&filter.Sex, "sex", results.FilterAll, "ALL, MALE or FEMALE")
	fs.StringVar(&sortKey, "sort", string(results.SortTestNo), "Sort column")
	fs.BoolVar(&desc, "desc", false, "Sort descending")
	fs.Var(&marks, "mark", "ROW=RESULT final result (repeatable)")
	fs.BoolVar(&save, "save", false, "Write marked results")
	fs.StringVar(&exportDir, "export", "", "Write the shown rows as a name list into this directory")
	fs.StringVar(&employer, "employer", "", "Header line for the exported name list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if end == "" {
		end = start
	}

	key, err := results.ParseSortKey(sortKey)
	if err != nil {
		return err
	}

	sess := results.NewSession(a.client)
	if err := sess.Load(ctx, start, end); err != nil {
		return err
	}
	sess.Query = results.Query{Filter: filter, SortKey: key, Descending: desc}

	for _, m := range marks {
		if err := sess.MarkResult(m.row, models.ParseRemark(m.value)); err != nil {
			return err
		}
	}

	view := sess.View()
	a.heading("Results %s to %s: showing %s of %s", start, end,
		humanize.Comma(int64(len(view))), humanize.Comma(int64(len(sess.Raw()))))
	a.printResults(view)

	if dirty := len(sess.Dirty()); dirty > 0 {
		if !save {
			a.warn("%d unsaved result(s); add -save to write", dirty)
		} else {
			msg, err := sess.BulkSave(ctx)
			if err != nil {
				return err
			}
			a.success("results: %s", msg)
		}
	}

	if exportDir != "" {
		list := results.NameList{EmployerHeader: employer, Date: start, AgeAt: a.now()}
		var buf bytes.Buffer
		if err := list.Write(&buf, view); err != nil {
			return err
		}
		path := filepath.Join(exportDir, list.FileName())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("export name list: %w", err)
		}
		a.success("exported %s (%s)", path, humanize.Bytes(uint64(buf.Len())))
	}
	return nil
}

func (a *app) printResults(rows []models.ResultRecord) {
	table := a.table("Row", "Test No", "Full Name", "Sex", "Position", "Job Line", "Result", "")
	for _, r := range rows {
		dirty := ""
		if r.Dirty {
			dirty = "*"
		}
		table.Append([]string{
			strconv.Itoa(r.Row),
			orDash(string(r.TestNo)),
			r.FullName,
			orDash(string(r.Sex)),
			r.Position,
			r.JobLine,
			string(r.Remark),
			dirty,
		})
	}
	table.Render()
}
