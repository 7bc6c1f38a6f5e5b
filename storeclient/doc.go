// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package storeclient is the HTTP client of the candidate store.

Every call is a POST of a JSON body with an "action" field to a single
URL. The reply is an envelope with a "status" field, an optional message
and a data payload. Failures come in two kinds:

  - ErrTransport: the store could not be reached or its reply could not
    be read. Nothing was confirmed.
  - *StoreError: the store answered with a negative status. Its Message
    is meant for the operator. errors.Is(err, ErrDuplicate) picks out a
    refused same-day registration.

There is no retry. Each call carries a fresh X-Request-ID.

Client satisfies intake.Store, screening.Store and results.Store, and its
Search and GetReport methods fit intake.LookupFunc and report.FetchFunc.
*/
package storeclient
