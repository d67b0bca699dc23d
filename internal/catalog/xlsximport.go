package catalog

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Sheet layout of the legacy pricing workbook:
//
//	A: service name  B: unit  C: category  D: special flag  E: synonyms ("|" separated)
//
// The spreadsheet row number becomes ServiceConfig.Row, which is why rows
// must never be reordered in the workbook.
const (
	colName = iota
	colUnit
	colCategory
	colSpecial
	colSynonyms
)

// ImportXLSX reads the legacy pricing workbook and returns its catalog
// entries and synonym table. Header row is skipped; blank names end a row.
func ImportXLSX(path string) ([]model.ServiceConfig, []model.SynonymEntry, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "catalog: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.New("catalog: workbook has no sheets")
	}
	sheet := f.Sheets[0]

	var services []model.ServiceConfig
	var synonyms []model.SynonymEntry

	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		if len(cells) <= colUnit || cells[colName] == "" {
			continue
		}

		unit := model.Unit(NormalizeUnitToken(cells[colUnit]))
		if !validUnit(unit) {
			return nil, nil, eris.Errorf("catalog: row %d: unknown unit %q", i+1, cells[colUnit])
		}

		sc := model.ServiceConfig{
			Name: cells[colName],
			Row:  i + 1, // 1-based spreadsheet row
			Unit: unit,
		}
		if len(cells) > colCategory {
			sc.Category = cells[colCategory]
		}
		if len(cells) > colSpecial {
			sc.IsSpecial = parseBool(cells[colSpecial])
		}
		services = append(services, sc)

		if len(cells) > colSynonyms && cells[colSynonyms] != "" {
			var phrases []string
			for _, p := range strings.Split(cells[colSynonyms], "|") {
				if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
					phrases = append(phrases, p)
				}
			}
			if len(phrases) > 0 {
				synonyms = append(synonyms, model.SynonymEntry{Service: sc.Name, Phrases: phrases})
			}
		}
	}

	if err := checkSynonymUniqueness(synonyms); err != nil {
		return nil, nil, err
	}

	zap.L().Info("catalog: workbook imported",
		zap.String("path", path),
		zap.Int("services", len(services)),
		zap.Int("synonym_entries", len(synonyms)),
	)

	return services, synonyms, nil
}

// checkSynonymUniqueness rejects a phrase claimed by more than one service.
func checkSynonymUniqueness(entries []model.SynonymEntry) error {
	owner := make(map[string]string)
	for _, e := range entries {
		for _, p := range e.Phrases {
			if prev, ok := owner[p]; ok && prev != e.Service {
				return eris.Errorf("catalog: synonym %q claimed by both %q and %q", p, prev, e.Service)
			}
			owner[p] = e.Service
		}
	}
	return nil
}

func validUnit(u model.Unit) bool {
	for _, v := range model.AllUnits() {
		if u == v {
			return true
		}
	}
	return false
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return strings.EqualFold(s, "yes") || strings.EqualFold(s, "y")
	}
	return b
}
