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

// GitHub linguist colors for the languages most often seen on profiles.
var languageColors = map[string]string{
	"JavaScript":       "#f1e05a",
	"TypeScript":       "#3178c6",
	"HTML":             "#e34c26",
	"CSS":              "#563d7c",
	"Python":           "#3572A5",
	"Java":             "#b07219",
	"C#":               "#178600",
	"PHP":              "#4F5D95",
	"Ruby":             "#701516",
	"Go":               "#00ADD8",
	"Swift":            "#F05138",
	"Kotlin":           "#A97BFF",
	"Rust":             "#DEA584",
	"Dart":             "#00B4AB",
	"Shell":            "#89e051",
	"C++":              "#f34b7d",
	"C":                "#555555",
	"Jupyter Notebook": "#DA5B0B",
	"Vue":              "#41B883",
	"Dockerfile":       "#384d54",
	"Markdown":         "#083fa1",
	"Lua":              "#000080",
	UnknownLanguage:    "#858585",
	OtherLanguage:      "#8c8c8c",
}

// LanguageColor returns the hex color for lang. Unmapped and empty names
// get the Unknown color.
func LanguageColor(lang string) string {
	if c, ok := languageColors[lang]; ok {
		return c
	}
	return languageColors[UnknownLanguage]
}
