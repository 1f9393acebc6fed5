// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package view

import (
	"fmt"
	"time"
)

// DateLayout renders dates as "Jan 2, 2006" regardless of locale.
const DateLayout = "Jan 2, 2006"

// FormatSize renders a size in kilobytes using decimal units.
// Zero means GitHub has not computed the size yet.
func FormatSize(kb int) string {
	switch {
	case kb <= 0:
		return "Unknown"
	case kb < 1000:
		return fmt.Sprintf("%d KB", kb)
	case kb < 1000000:
		return fmt.Sprintf("%.1f MB", float64(kb)/1000)
	default:
		return fmt.Sprintf("%.1f GB", float64(kb)/1000000)
	}
}

// FormatDate renders t with DateLayout, or "Unknown date" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format(DateLayout)
}

// ParseDate parses an RFC 3339 timestamp and formats it like FormatDate.
func ParseDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "Unknown date"
	}
	return FormatDate(t)
}
