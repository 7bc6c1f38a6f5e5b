// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/exam-intake/cliparse"
	"github.com/danielhkuo/exam-intake/intake"
	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/storeclient"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var errUsage = errors.New("usage")

type app struct {
	cfg    cliparse.ClientConfig
	client *storeclient.Client
	in     *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

func newApp(cfg cliparse.ClientConfig, in io.Reader, out io.Writer) *app {
	return &app{
		cfg:    cfg,
		client: storeclient.New(cfg.StoreURL, cfg.Timeout),
		in:     bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
}

type command struct {
	name    string
	summary string
	offline bool // skips the reachability probe
	run     func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "ping", summary: "check that the store answers", offline: true, run: (*app).ping},
	{name: "options", summary: "list employer, position and job line suggestions", run: (*app).options},
	{name: "search", summary: "look up a passport's registrations", run: (*app).search},
	{name: "register", summary: "register or update a candidate", run: (*app).register},
	{name: "screening", summary: "score, knock out and rank a screening sheet", run: (*app).screening},
	{name: "results", summary: "filter, mark, save and export exam results", run: (*app).results},
	{name: "report", summary: "show the candidate report", run: (*app).report},
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		// Nothing is sent to a store that does not answer the probe.
		if !cmd.offline && !a.client.Reachable(ctx) {
			return fmt.Errorf("%w: store %s is unreachable", models.ErrValidation, a.client.URL())
		}
		return cmd.run(a, ctx, args[1:])
	}

	a.usage()
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) usage() {
	fmt.Fprintln(a.out, "usage: intakectl [-store URL] [-timeout D] [-order male-first|female-first] [-v] <command> [flags]")
	fmt.Fprintln(a.out)
	for _, cmd := range commands {
		fmt.Fprintf(a.out, "  %-10s %s\n", cmd.name, cmd.summary)
	}
}

func (a *app) ping(ctx context.Context, args []string) error {
	if err := a.client.TestConnection(ctx); err != nil {
		return err
	}
	a.success("store %s is reachable", a.client.URL())
	return nil
}

func (a *app) options(ctx context.Context, args []string) error {
	opts, err := a.client.GetOptions(ctx)
	if err != nil {
		return err
	}
	for _, list := range []struct {
		title  string
		values []string
	}{
		{"Employers", opts.Employers},
		{"Positions", opts.Positions},
		{"Job lines", opts.JobLines},
	} {
		a.heading("%s (%d)", list.title, len(list.values))
		for _, v := range list.values {
			fmt.Fprintf(a.out, "  %s\n", v)
		}
	}
	return nil
}

// lookup runs one identifier search through a coordinator and waits for it.
func (a *app) lookup(ctx context.Context, passport string) intake.SearchState {
	coord := intake.NewCoordinator(ctx, a.client.Search, intake.DefaultDebounce)
	coord.SearchNow(passport)
	coord.Wait()
	return coord.State()
}

// confirm asks a yes/no question on the app's input. Anything but y/yes is no.
func (a *app) confirm(format string, args ...any) bool {
	color.New(color.FgYellow).Fprintf(a.out, format+" [y/N] ", args...)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *app) heading(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(a.out, "\n"+format+"\n", args...)
}

func (a *app) success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(a.out, format+"\n", args...)
}

func (a *app) warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(a.out, format+"\n", args...)
}

func (a *app) table(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(a.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func (a *app) today() string {
	return a.now().Format(models.DateLayout)
}

// assignments collects repeated ROW=VALUE flags.
type assignments []assignment

type assignment struct {
	row   int
	value string
}

func (as *assignments) String() string {
	parts := make([]string, len(*as))
	for i, a := range *as {
		parts[i] = strconv.Itoa(a.row) + "=" + a.value
	}
	return strings.Join(parts, " ")
}

func (as *assignments) Set(s string) error {
	rowText, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("want ROW=VALUE, got %q", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil || row <= 0 {
		return fmt.Errorf("bad row number in %q", s)
	}
	*as = append(*as, assignment{row: row, value: strings.TrimSpace(value)})
	return nil
}

func formatTotal(total float64) string {
	return strconv.FormatFloat(total, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
