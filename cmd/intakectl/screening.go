// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"flag"
	"strconv"
	"strings"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/ranking"
	"github.com/danielhkuo/exam-intake/screening"
	"github.com/dustin/go-humanize"
)

func (a *app) screening(ctx context.Context, args []string) error {
	var (
		start, end, examDate, order string
		scores, knockouts           assignments
		rank, save                  bool
	)

	fs := flag.NewFlagSet("screening", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&start, "start", a.today(), "First exam date of the sheet")
	fs.StringVar(&end, "end", "", "Last exam date of the sheet (default: -start)")
	fs.StringVar(&examDate, "date", "", "Exam date written with a ranked batch (default: -start)")
	fs.StringVar(&order, "order", a.cfg.GroupOrder, "male-first or female-first")
	fs.Var(&scores, "score", "ROW=ENG,PERS,EXP component scores (repeatable)")
	fs.Var(&knockouts, "knockout", "ROW=REMARK knockout remark (repeatable)")
	fs.BoolVar(&rank, "rank", false, "Rank the sheet and assign test numbers")
	fs.BoolVar(&save, "save", false, "Write ranked scores and knockout remarks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if end == "" {
		end = start
	}
	if examDate == "" {
		examDate = start
	}

	groupOrder, err := ranking.ParseGroupOrder(order)
	if err != nil {
		return err
	}

	sess := screening.NewSession(a.client, groupOrder)
	if err := sess.Load(ctx, start, end); err != nil {
		return err
	}

	for _, s := range scores {
		for i, part := range strings.SplitN(s.value, ",", 3) {
			if err := sess.SetScore(s.row, models.Component(i), strings.TrimSpace(part)); err != nil {
				return err
			}
		}
	}
	for _, k := range knockouts {
		if err := sess.SetRemark(k.row, models.ParseRemark(k.value)); err != nil {
			return err
		}
	}

	if rank {
		if _, err := sess.Rank(examDate); err != nil {
			return err
		}
	}

	rows := sess.Rows()
	a.heading("Screening %s to %s: %s candidate(s), order %s", start, end, humanize.Comma(int64(len(rows))), groupOrder)
	a.printSheet(rows)

	if !sess.Pending() && sess.DirtyRemarks() == 0 {
		return nil
	}
	if !save {
		a.warn("preview only; add -save to write")
		return nil
	}

	if sess.Pending() {
		msg, err := sess.SaveScores(ctx)
		if err != nil {
			return err
		}
		a.success("scores: %s", msg)
	}
	if sess.DirtyRemarks() > 0 {
		msg, err := sess.SaveKnockout(ctx)
		if err != nil {
			return err
		}
		a.success("knockout: %s", msg)
	}
	return nil
}

func (a *app) printSheet(rows []models.ScoreSheetRow) {
	table := a.table("Row", "Reg No", "Test No", "Full Name", "Sex", "Eng", "Pers", "Exp", "Total", "Remark")
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(r.Row),
			orDash(string(r.RegNo)),
			orDash(string(r.TestNo)),
			r.FullName,
			orDash(string(r.Sex)),
			string(r.ScoreEng),
			string(r.ScorePers),
			string(r.ScoreExp),
			formatTotal(r.Total),
			string(r.Remark),
		})
	}
	table.Render()
}
