// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"flag"
	"strconv"
	"time"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/report"
	"github.com/dustin/go-humanize"
)

func (a *app) report(ctx context.Context, args []string) error {
	var (
		start, end string
		watch      time.Duration
	)

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&start, "start", a.today(), "First exam date")
	fs.StringVar(&end, "end", "", "Last exam date (default: -start)")
	fs.DurationVar(&watch, "watch", 0, "Keep refreshing at this interval until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if end == "" {
		end = start
	}

	refresher := report.NewRefresher(a.client.GetReport, start, end, watch)
	snap, err := refresher.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printReport(snap)

	if watch <= 0 {
		return nil
	}

	go refresher.Run(ctx)
	ticker := time.NewTicker(watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := refresher.Snapshot()
			if err != nil {
				continue
			}
			a.printReport(snap)
		}
	}
}

func (a *app) printReport(snap report.Snapshot) {
	b := snap.Bucket
	a.heading("Report %s to %s (updated %s)", snap.Start, snap.End, humanize.Time(snap.FetchedAt))

	table := a.table("", "Count", "%")
	table.Append([]string{"Male", humanize.Comma(int64(b.Males)), strconv.Itoa(b.MalePercent)})
	table.Append([]string{"Female", humanize.Comma(int64(b.Females)), strconv.Itoa(b.FemalePercent)})
	table.SetFooter([]string{"Total", humanize.Comma(int64(b.Total)), ""})
	table.Render()

	a.printCounts("Age group", b.AgeGroups)
	a.printCounts("Position", b.Positions)
}

func (a *app) printCounts(title string, counts models.OrderedCounts) {
	table := a.table(title, "Count")
	for _, c := range counts {
		table.Append([]string{c.Key, humanize.Comma(int64(c.Count))})
	}
	table.Render()
}
