package crunchbase

import (
	"strings"
	"time"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/sources"
)

// Pure mapping from Crunchbase records to canonical shapes.

func orgID(uuid string) string {
	return "cb-org-" + uuid
}

func personUID(uuid string) string {
	return "cb-person-" + uuid
}

// mapOrganization builds a canonical organization from a search entity.
// Crunchbase carries an explicit funding stage, so no inference runs here:
// the stage label is normalized into the enumeration and unknown or absent
// labels default to seed.
func mapOrganization(entity orgEntity, h config.Heuristics, now time.Time) interfaces.Organization {
	props := entity.Properties

	foundedYear := now.Year()
	if year := parseFoundedYear(props.FoundedOn); year != 0 {
		foundedYear = year
	}

	location := ""
	if len(props.LocationIdentifiers) > 0 {
		location = props.LocationIdentifiers[0].Value
	}

	return interfaces.Organization{
		ID:          orgID(entity.UUID),
		Name:        props.Identifier.Value,
		Domains:     domainTags(props.Categories, h),
		Stage:       sources.NormalizeStage(props.LastFundingType),
		FoundedYear: clampYear(foundedYear),
		Location:    location,
		Description: props.ShortDescription,
	}
}

// domainTags takes the top-N ranked categories, deduplicated, each remapped
// through the lookup table. Category labels are normalized to the lookup
// key form (lower case, spaces to hyphens); labels without a table entry
// pass through unchanged.
func domainTags(categories []identifier, h config.Heuristics) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0, h.TopSignals)

	for _, category := range categories {
		signal := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category.Value)), " ", "-")
		if signal == "" {
			continue
		}
		tag := signal
		if mapped, ok := h.DomainLookup[signal]; ok {
			tag = mapped
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) >= h.TopSignals {
			break
		}
	}
	return tags
}

// mapFounder builds a canonical person from a founders-card entry
func mapFounder(f founder, categories []identifier) interfaces.Person {
	role := f.Title
	if role == "" {
		role = "founder"
	}

	keywords := make([]string, 0, len(categories))
	for _, category := range categories {
		keywords = append(keywords, strings.ToLower(category.Value))
	}

	return interfaces.Person{
		ID:       personUID(f.Identifier.UUID),
		Name:     f.Identifier.Value,
		Roles:    []string{role},
		Keywords: keywords,
		Bio:      f.Bio,
	}
}

// mapInvestor builds a canonical organization for an investor referenced by
// a portfolio company. Investors carry no funding signal of their own.
func mapInvestor(investor identifier, now time.Time) interfaces.Organization {
	return interfaces.Organization{
		ID:          orgID(investor.UUID),
		Name:        investor.Value,
		Domains:     []string{"venture-capital"},
		Stage:       interfaces.StageGrowth,
		FoundedYear: clampYear(now.Year()),
		Location:    "",
		Description: "",
	}
}

// parseFoundedYear reads the year out of a founded_on date ("2015-06-01").
// Returns zero when absent or malformed.
func parseFoundedYear(foundedOn string) int {
	if len(foundedOn) < 4 {
		return 0
	}
	t, err := time.Parse("2006-01-02", foundedOn)
	if err != nil {
		t, err = time.Parse("2006", foundedOn[:4])
		if err != nil {
			return 0
		}
	}
	return t.Year()
}

func clampYear(year int) int {
	if year < 1900 {
		return 1900
	}
	if year > 2100 {
		return 2100
	}
	return year
}
