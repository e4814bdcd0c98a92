package github

import (
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v45/github"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// Mapping from raw GitHub records to canonical shapes. Everything in this
// file is pure and deterministic; all network work happens in source.go.

func orgID(login string) string {
	return "gh-org-" + strings.ToLower(login)
}

func personID(login string) string {
	return "gh-user-" + strings.ToLower(login)
}

// mapOrganization builds a canonical organization from an owner's profile
// and repositories. org may be nil when the profile sub-fetch failed; the
// repositories alone still produce a usable record.
func mapOrganization(login string, org *gh.Organization, repos []*gh.Repository, h config.Heuristics, now time.Time) interfaces.Organization {
	name := login
	location := ""
	description := ""
	repoCount := len(repos)

	created := earliestRepoCreation(repos)
	if org != nil {
		if org.GetName() != "" {
			name = org.GetName()
		}
		location = org.GetLocation()
		description = org.GetDescription()
		if org.GetPublicRepos() > repoCount {
			repoCount = org.GetPublicRepos()
		}
		if !org.GetCreatedAt().IsZero() {
			created = org.GetCreatedAt()
		}
	}
	if created.IsZero() {
		created = now
	}

	stars := 0
	for _, repo := range repos {
		stars += repo.GetStargazersCount()
	}
	ageYears := now.Sub(created).Hours() / (24 * 365.25)

	return interfaces.Organization{
		ID:          orgID(login),
		Name:        name,
		Domains:     domainTags(repos, h),
		Stage:       h.Stage.InferStage(repoCount, stars, ageYears),
		FoundedYear: clampYear(created.Year()),
		Location:    location,
		Description: description,
	}
}

// domainTags derives domain tags from the owner's repositories: topics of
// the most-starred repositories first, then primary languages, deduplicated,
// cut to the configured top-N, each signal remapped through the lookup
// table. Signals without a table entry pass through unchanged.
func domainTags(repos []*gh.Repository, h config.Heuristics) []string {
	ranked := make([]*gh.Repository, len(repos))
	copy(ranked, repos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GetStargazersCount() > ranked[j].GetStargazersCount()
	})

	var signals []string
	for _, repo := range ranked {
		signals = append(signals, repo.Topics...)
	}
	for _, repo := range ranked {
		if lang := repo.GetLanguage(); lang != "" {
			signals = append(signals, strings.ToLower(lang))
		}
	}

	seen := make(map[string]bool)
	tags := make([]string, 0, h.TopSignals)
	for _, signal := range signals {
		signal = strings.ToLower(signal)
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

// mapContributor builds a canonical person from a repository contributor
func mapContributor(contributor *gh.Contributor, founder bool, keywords []string) interfaces.Person {
	role := "contributor"
	if founder {
		role = "founder"
	}
	return interfaces.Person{
		ID:       personID(contributor.GetLogin()),
		Name:     contributor.GetLogin(),
		Roles:    []string{role},
		Keywords: keywords,
		Bio:      "",
	}
}

// isFounder decides whether a contributor's implicit relationship counts as
// a founding edge: the contribution count must clear the configured
// threshold and the repository's creation must fall within the recency
// window of the organization's creation. A coarse heuristic, kept as
// configurable policy.
func isFounder(contributions int, repoCreated, orgCreated time.Time, policy config.FounderPolicy) bool {
	if contributions < policy.MinContributions {
		return false
	}
	window := time.Duration(policy.RecencyMonths) * 30 * 24 * time.Hour
	gap := repoCreated.Sub(orgCreated)
	if gap < 0 {
		gap = -gap
	}
	return gap <= window
}

func relationshipFor(personID, orgID string, founder bool, sinceYear int) interfaces.Relationship {
	relType := interfaces.RelationWorksAt
	if founder {
		relType = interfaces.RelationCoFounded
	}
	return interfaces.Relationship{
		SourceID:  personID,
		TargetID:  orgID,
		Type:      relType,
		SinceYear: clampYear(sinceYear),
	}
}

func earliestRepoCreation(repos []*gh.Repository) time.Time {
	var earliest time.Time
	for _, repo := range repos {
		created := repo.GetCreatedAt().Time
		if created.IsZero() {
			continue
		}
		if earliest.IsZero() || created.Before(earliest) {
			earliest = created
		}
	}
	return earliest
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
