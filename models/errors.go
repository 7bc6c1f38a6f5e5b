// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// ErrValidation marks a request refused before any store call was made.
// Wrap it with the specific reason:
//
//	fmt.Errorf("%w: full name is required", models.ErrValidation)
var ErrValidation = errors.New("validation failed")
