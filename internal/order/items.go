package order

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The spreadsheet order store keeps line items as a single rich-text field:
//
//	Mango (3 lbs @ $4.99/lb), Avocado (2 lbs @ $3.99/lb)
//
// The format is part of the collaborator contract, so both directions live
// here. Parsing is lossy: the unit price is not captured on read-back and
// comes out as zero.

var itemPattern = regexp.MustCompile(`^(.+?)\s*\((\d+)\s*lbs\s*@\s*\$\d+(?:\.\d+)?/lb\)$`)

// EncodeItems renders line snapshots into the Items text blob.
func EncodeItems(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s (%d lbs @ $%s/lb)", l.ProductName, l.Quantity, l.PricePerPound.String()))
	}
	return strings.Join(parts, ", ")
}

// DecodeItems parses an Items text blob back into line snapshots. Entries
// that do not match the pattern are skipped. Product ids are reconstructed
// by slugging the name; PricePerPound is always zero.
func DecodeItems(blob string) []Line {
	if strings.TrimSpace(blob) == "" {
		return []Line{}
	}
	lines := make([]Line, 0)
	for _, part := range strings.Split(blob, ", ") {
		m := itemPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		name := m[1]
		lines = append(lines, Line{
			ProductID:     slugify(name),
			ProductName:   name,
			Quantity:      qty,
			PricePerPound: decimal.Zero,
		})
	}
	return lines
}

func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
