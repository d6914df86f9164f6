// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across rigchat.
package util

import "strconv"

func itoa(i int) string {
	return strconv.Itoa(i)
}
