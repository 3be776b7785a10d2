/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent          = "mcmahon-td/0.3.0 (+https://github.com/mikeb26/mcmahon-td)"
	RosterCacheMaxAge  = 15 * time.Minute
	DiscordCommandName = "mm"
)
