// Package export renders finished leaderboards for people: a tab-aligned
// text table for terminals and an xlsx workbook for spreadsheet analysis.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// reportAttributes are the workbook columns beyond rank, score, combination
// and gear: the three summary scores first, then the attributes that explain
// them.
var reportAttributes = []attribute.Attribute{
	attribute.Damage,
	attribute.Survivability,
	attribute.Healing,
	attribute.Power,
	attribute.Precision,
	attribute.Toughness,
	attribute.Vitality,
	attribute.Ferocity,
	attribute.ConditionDamage,
	attribute.Expertise,
	attribute.Concentration,
	attribute.HealingPower,
	attribute.CriticalChance,
	attribute.CriticalDamage,
	attribute.BoonDuration,
	attribute.Health,
}

// WriteTable renders the leaderboard as an aligned text table, best first.
func WriteTable(w io.Writer, characters []*character.Character, combinations []gear.Combination) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tCOMBINATION\tGEAR")
	for i, ch := range characters {
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\n",
			i+1, ch.Score(), combinationName(combinations, ch.CombinationID), gearLine(ch.Gear))
	}
	return tw.Flush()
}

// WriteWorkbook writes the leaderboard to an xlsx workbook at path, creating
// parent directories as needed. The Results sheet carries one header row and
// one row per character, best first.
func WriteWorkbook(path string, characters []*character.Character, combinations []gear.Combination, slotNames []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	slots := 0
	if len(characters) > 0 {
		slots = len(characters[0].Gear)
	}
	header := make([]string, 0, 3+slots+len(reportAttributes))
	header = append(header, "Rank", "Score", "Combination")
	for i := 0; i < slots; i++ {
		header = append(header, slotLabel(slotNames, i))
	}
	for _, a := range reportAttributes {
		header = append(header, a.String())
	}
	for c, v := range header {
		if err := f.SetCellValue(sheet, cellName(c, 1), v); err != nil {
			return fmt.Errorf("export: write header: %w", err)
		}
	}

	for r, ch := range characters {
		values := make([]interface{}, 0, len(header))
		values = append(values, r+1, ch.Score(), combinationName(combinations, ch.CombinationID))
		for _, a := range ch.Gear {
			values = append(values, a.String())
		}
		for _, a := range reportAttributes {
			values = append(values, ch.Attributes.Get(a))
		}
		for c, v := range values {
			if err := f.SetCellValue(sheet, cellName(c, r+2), v); err != nil {
				return fmt.Errorf("export: write row %d: %w", r+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// TimestampedPath returns dir/<timestamp>_<stem>.xlsx. The timestamp leads so
// workbooks list chronologically.
func TimestampedPath(dir, stem string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", now.Format("20060102_150405"), stem))
}

func gearLine(assignment []gear.Affix) string {
	names := make([]string, len(assignment))
	for i, a := range assignment {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}

func combinationName(combinations []gear.Combination, id int) string {
	if id >= 0 && id < len(combinations) && combinations[id].Name != "" {
		return combinations[id].Name
	}
	return fmt.Sprintf("combination %d", id)
}

func slotLabel(slotNames []string, i int) string {
	if i < len(slotNames) && slotNames[i] != "" {
		return slotNames[i]
	}
	return fmt.Sprintf("Slot %d", i+1)
}

// Excel columns: A..Z, then AA onward.
func cellName(colZeroBased, rowOneBased int) string {
	col := colZeroBased + 1
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return fmt.Sprintf("%s%d", name, rowOneBased)
}
