// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and models.
package model

import "github.com/dustin/go-humanize"

// LocalModel is a model installed on the inference backend.
type LocalModel struct {
	Name string `json:"name"`
	Size int64  `json:"size"` // bytes
}

// HumanSize formats the model size for display (e.g. "4.7 GB").
func (m LocalModel) HumanSize() string {
	if m.Size <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(m.Size))
}
