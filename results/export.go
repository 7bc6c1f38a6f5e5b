// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/xuri/excelize/v2"
)

// NameListSheet is the worksheet name of an exported name list.
const NameListSheet = "Name List"

// NameListHeader is the column header row of an exported name list.
var NameListHeader = []string{"Test No.", "FULLNAME", "Age", "DOB", "Passport No.", "Remark"}

// NameList describes one printed name list.
type NameList struct {
	EmployerHeader string    // optional first row
	Date           string    // exam date shown in the "Date:" row
	AgeAt          time.Time // reference day for ages; zero means today
}

// Write renders rows as an xlsx workbook to w. Rows are written in the
// order given, normally a session's View.
func (n NameList) Write(w io.Writer, rows []models.ResultRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", NameListSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	at := n.AgeAt
	if at.IsZero() {
		at = time.Now()
	}

	var lines [][]any
	if n.EmployerHeader != "" {
		lines = append(lines, []any{n.EmployerHeader})
	}
	lines = append(lines, []any{"Date: " + models.FormatDayMonthYear(n.Date)})
	lines = append(lines, nil)

	header := make([]any, len(NameListHeader))
	for i, h := range NameListHeader {
		header[i] = h
	}
	lines = append(lines, header)

	for _, r := range rows {
		testNo := string(r.TestNo)
		if testNo == "" {
			testNo = "-"
		}
		age := "-"
		if years, ok := models.AgeAt(r.DOB, at); ok {
			age = strconv.Itoa(years)
		}
		lines = append(lines, []any{
			testNo,
			r.FullName,
			age,
			models.FormatDayMonthYear(r.DOB),
			r.Passport,
			string(r.Remark),
		})
	}

	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(NameListSheet, cell, &line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName is the conventional file name for a name list.
func (n NameList) FileName() string {
	return "NameList_" + models.NormalizeDate(n.Date) + ".xlsx"
}
