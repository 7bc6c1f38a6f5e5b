// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"slices"

	"github.com/danielhkuo/exam-intake/intake"
	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/storeclient"
)

func (a *app) register(ctx context.Context, args []string) error {
	var (
		examDate, passport, name, sex, dob string
		employer, position, jobLine        string
		regNo, testNo, use                 string
		hit                                int
		yes                                bool
	)

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&examDate, "date", a.today(), "Exam date")
	fs.StringVar(&passport, "passport", "", "Passport number (required)")
	fs.StringVar(&name, "name", "", "Full name")
	fs.StringVar(&sex, "sex", "", "MALE or FEMALE")
	fs.StringVar(&dob, "dob", "", "Date of birth")
	fs.StringVar(&employer, "employer", "", "Employer")
	fs.StringVar(&position, "position", "", "Position")
	fs.StringVar(&jobLine, "jobline", "", "Job line")
	fs.StringVar(&regNo, "regno", "", "Registration number")
	fs.StringVar(&testNo, "testno", "", "Test number")
	fs.StringVar(&use, "use", "", "Copy a found record into the form: personal or full (full updates that record)")
	fs.IntVar(&hit, "hit", 1, "Which search hit -use copies, counting from 1")
	fs.BoolVar(&yes, "yes", false, "Register again on a date the candidate already has")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if passport == "" {
		return errors.New("register: -passport is required")
	}

	reg := intake.NewRegistration(a.client, examDate)
	if err := reg.LoadOptions(ctx); err != nil {
		slog.Warn("suggestions unavailable", "error", err)
	}

	reg.SetIdentifier(passport)
	state := a.lookup(ctx, passport)
	reg.SetHistory(state.Results)

	if use != "" {
		mode, err := parseUseMode(use)
		if err != nil {
			return err
		}
		if hit < 1 || hit > len(state.Results) {
			return fmt.Errorf("%w: -hit %d but %d record(s) found", models.ErrValidation, hit, len(state.Results))
		}
		reg.UseRecord(state.Results[hit-1], mode)
	}

	overlay := map[*string]string{
		&reg.Form.FullName: name,
		&reg.Form.DOB:      dob,
		&reg.Form.Employer: employer,
		&reg.Form.Position: position,
		&reg.Form.JobLine:  jobLine,
	}
	for field, v := range overlay {
		if v != "" {
			*field = v
		}
	}
	if regNo != "" {
		reg.Form.RegNo = models.Cell(regNo)
	}
	if testNo != "" {
		reg.Form.TestNo = models.Cell(testNo)
	}
	if sex != "" {
		reg.Form.Sex = models.ParseSex(sex)
	}

	a.noteNewSuggestion("employer", reg.Form.Employer, reg.Options.Employers)
	a.noteNewSuggestion("position", reg.Form.Position, reg.Options.Positions)
	a.noteNewSuggestion("job line", reg.Form.JobLine, reg.Options.JobLines)

	allowDuplicate := yes
	if !allowDuplicate && reg.NeedsConfirmation() {
		if !a.confirm("%s is already registered on %s. Register again?", reg.Form.Passport, reg.Form.ExamDate) {
			a.warn("cancelled")
			return nil
		}
		allowDuplicate = true
	}

	target, editing := reg.EditTarget()
	msg, err := reg.Submit(ctx, allowDuplicate)
	if errors.Is(err, storeclient.ErrDuplicate) {
		return fmt.Errorf("%w (re-run with -yes to register anyway)", err)
	}
	if err != nil {
		return err
	}

	if editing {
		a.success("updated row %d: %s", target.Row, msg)
	} else {
		a.success("registered %s: %s", models.NormalizeIdentifier(passport), msg)
	}
	return nil
}

func parseUseMode(s string) (intake.UseMode, error) {
	switch s {
	case "personal":
		return intake.UsePersonal, nil
	case "full":
		return intake.UseFull, nil
	}
	return 0, fmt.Errorf("%w: -use must be personal or full, got %q", models.ErrValidation, s)
}

// noteNewSuggestion points out a value that is not yet on file. Suggestions
// never restrict what can be entered.
func (a *app) noteNewSuggestion(field, value string, known []string) {
	if value == "" || len(known) == 0 {
		return
	}
	if slices.Contains(known, models.NormalizeIdentifier(value)) {
		return
	}
	a.warn("new %s %q", field, models.NormalizeIdentifier(value))
}
