// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/danielhkuo/exam-intake/models"
)

// ErrConfirmationRequired is returned by Submit when the candidate already
// has an entry on the same exam date and the caller did not confirm.
var ErrConfirmationRequired = errors.New("candidate already registered on this exam date")

// Store is the slice of the external store a registration session uses.
type Store interface {
	GetOptions(ctx context.Context) (models.Options, error)
	Submit(ctx context.Context, rec models.CandidateRecord, allowDuplicate bool) (string, error)
	Update(ctx context.Context, rec models.CandidateRecord) (string, error)
}

// UseMode selects how much of a found record is copied into the form.
type UseMode int

const (
	// UsePersonal copies name, sex and date of birth only.
	UsePersonal UseMode = iota
	// UseFull copies every field and makes the record the update target.
	UseFull
)

// Registration is one operator's registration form.
type Registration struct {
	store Store

	Form    models.CandidateRecord
	Options models.Options

	history    []models.CandidateRecord
	editTarget *models.SourceLocation
}

// NewRegistration starts an empty form for examDate.
func NewRegistration(store Store, examDate string) *Registration {
	return &Registration{
		store: store,
		Form:  models.CandidateRecord{ExamDate: examDate, Sex: models.SexMale},
	}
}

// LoadOptions fetches the employer/position/job line suggestions.
func (r *Registration) LoadOptions(ctx context.Context) error {
	opts, err := r.store.GetOptions(ctx)
	if err != nil {
		return fmt.Errorf("load options: %w", err)
	}
	r.Options = opts
	return nil
}

// SetHistory records the candidate's prior entries, usually the latest
// search results for the identifier in the form.
func (r *Registration) SetHistory(history []models.CandidateRecord) {
	r.history = slices.Clone(history)
}

// SetIdentifier changes the form's identifier. Any edit target is dropped,
// since it belonged to the previous identifier.
func (r *Registration) SetIdentifier(raw string) {
	r.Form.Passport = models.NormalizeIdentifier(raw)
	r.editTarget = nil
	if len(r.Form.Passport) < MinQueryLength {
		r.history = nil
	}
}

// EditTarget returns the record being updated, if any.
func (r *Registration) EditTarget() (models.SourceLocation, bool) {
	if r.editTarget == nil {
		return models.SourceLocation{}, false
	}
	return *r.editTarget, true
}

// UseRecord copies a found record into the form.
func (r *Registration) UseRecord(rec models.CandidateRecord, mode UseMode) {
	if rec.FullName != "" {
		r.Form.FullName = rec.FullName
	}
	r.Form.Sex = rec.Sex
	if r.Form.Sex == models.SexUnspecified {
		r.Form.Sex = models.SexMale
	}
	r.Form.DOB = rec.DOB

	if mode != UseFull {
		r.Form.Employer, r.Form.Position, r.Form.JobLine = "", "", ""
		r.Form.TestNo, r.Form.RegNo = "", ""
		r.editTarget = nil
		return
	}

	r.Form.Employer = rec.Employer
	r.Form.Position = rec.Position
	r.Form.JobLine = rec.JobLine
	r.Form.TestNo = rec.TestNo
	r.Form.RegNo = rec.RegNo
	if !rec.SourceLocation.IsZero() {
		loc := rec.SourceLocation
		r.editTarget = &loc
	}
}

// NeedsConfirmation reports whether submitting the form as a new record
// would create a second entry on the same exam date. Updates never do.
func (r *Registration) NeedsConfirmation() bool {
	if r.editTarget != nil {
		return false
	}
	return HasSameDayEntry(r.history, r.Form.ExamDate)
}

// Validate checks the fields the store requires.
func Validate(rec models.CandidateRecord) error {
	if rec.Passport == "" {
		return fmt.Errorf("%w: passport is required", models.ErrValidation)
	}
	if rec.FullName == "" {
		return fmt.Errorf("%w: full name is required", models.ErrValidation)
	}
	if _, ok := models.ParseDate(rec.ExamDate); !ok {
		return fmt.Errorf("%w: exam date %q is not a date", models.ErrValidation, rec.ExamDate)
	}
	if rec.DOB != "" {
		if _, ok := models.ParseDate(rec.DOB); !ok {
			return fmt.Errorf("%w: date of birth %q is not a date", models.ErrValidation, rec.DOB)
		}
	}
	return nil
}

// Submit writes the form. With an edit target it updates that record and
// skips the duplicate check. Otherwise a same-day duplicate is refused with
// ErrConfirmationRequired unless allowDuplicate is set. On failure the form
// is left as it was.
func (r *Registration) Submit(ctx context.Context, allowDuplicate bool) (string, error) {
	form := r.Form.Normalize()
	if err := Validate(form); err != nil {
		return "", err
	}

	var (
		msg string
		err error
	)
	if r.editTarget != nil {
		form.SourceLocation = *r.editTarget
		msg, err = r.store.Update(ctx, form)
	} else {
		if !allowDuplicate && HasSameDayEntry(r.history, form.ExamDate) {
			return "", ErrConfirmationRequired
		}
		form.SourceLocation = models.SourceLocation{}
		msg, err = r.store.Submit(ctx, form, allowDuplicate)
	}
	if err != nil {
		return "", err
	}

	slog.Info("registration saved", "passport", form.Passport, "exam_date", form.ExamDate, "update", r.editTarget != nil)
	r.reset()
	return msg, nil
}

// reset clears the per-candidate fields, keeping exam date and sex.
func (r *Registration) reset() {
	r.Form = models.CandidateRecord{ExamDate: r.Form.ExamDate, Sex: r.Form.Sex}
	r.history = nil
	r.editTarget = nil
}
