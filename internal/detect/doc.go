// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package detect implements the rule-based detector bank. Six independently
// scored categories (automation, timing, attention, interaction, device,
// content) each run a set of threshold checks over a behavioral snapshot and
// the submitted answers. Every check emits at most one weighted suspicious
// flag; category subtotals are clamped to [0,1] and summed into a clamped
// total score.
//
// Check identity, category membership, and the tier at which a check becomes
// active live in a single registry table so the tier policy and category
// rollups are lookups, not scattered conditionals.
package detect
