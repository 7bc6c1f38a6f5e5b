// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command intakectl is the operator front end for the exam-intake store.

Every command except ping first probes the store and refuses to run when
it does not answer.

# Usage

	intakectl [-store URL] [-timeout 15s] [-order male-first] [-v] <command> [flags]

Global settings fall back to STORE_URL, TIMEOUT and GROUP_ORDER, and a
.env file is read when present.

# Commands

	ping                        check the store answers
	options                     list employer/position/job line suggestions
	search AB1234               list a passport's registrations
	register -passport AB1234 -name "..." [-use personal|full -hit N] [-yes]
	screening -start D [-score ROW=E,P,X] [-knockout ROW=FAIL] [-rank] [-save]
	results -start D [-remark PASS] [-sort fullName -desc] [-mark ROW=PASS -save] [-export DIR]
	report -start D [-end D] [-watch 1m]

register warns before a second registration on the same exam date and asks
for confirmation; -yes answers it up front. screening and results only
write with -save; otherwise they print what would be written.
*/
package main
