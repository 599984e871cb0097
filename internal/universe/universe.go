package universe

import (
	"fmt"
	"sort"
	"strings"

	"sectoralpha/internal/domain"
)

// SectorMap maps a lowercase human sector key to the provider sector-label
// substrings it covers. Matching is case-insensitive substring containment.
var SectorMap = map[string][]string{
	"consumer cyclicals":                       {"Consumer Discretionary", "Consumer Cyclical", "Retail"},
	"banking/investment/finance":               {"Financials", "Banks"},
	"energy/resources":                         {"Energy", "Utilities: Energy", "Utilities"},
	"industrial/manufacturing":                 {"Industrials"},
	"technology/telecommunications/utilities":  {"Information Technology", "Telecommunication Services", "Technology", "Artificial Intelligence"},
	"healthcare":                               {"Health Care", "Healthcare"},
}

// SectorKeys lists the available sector keys in stable order, for prompts
// and error messages.
func SectorKeys() []string {
	keys := make([]string, 0, len(SectorMap))
	for k := range SectorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilterBySector keeps the constituents whose sector label matches the
// given sector key's allowed substrings.
func FilterBySector(constituents []domain.Constituent, sectorKey string) ([]domain.Constituent, error) {
	allowed, ok := SectorMap[strings.ToLower(strings.TrimSpace(sectorKey))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSector, sectorKey)
	}

	matched := []domain.Constituent{}
	for _, c := range constituents {
		for _, label := range allowed {
			if strings.Contains(strings.ToLower(c.Sector), strings.ToLower(label)) {
				matched = append(matched, c)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: sector %q", domain.ErrEmptyUniverse, sectorKey)
	}
	return matched, nil
}
