package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

const teamMatchThreshold = 0.6

// findTeam resolves a user-typed name to a team id. Levenshtein similarity
// is tried first, then an ordered-subsequence match for abbreviations.
func findTeam(data *models.LeagueData, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	teamIDs := data.TeamIDs()
	names := make([]string, len(teamIDs))
	for i, id := range teamIDs {
		names[i] = data.TeamName(id)
		if strings.EqualFold(names[i], query) || id == query {
			return id, true
		}
	}

	bestIndex := -1
	bestSimilarity := teamMatchThreshold
	for i, name := range names {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(query), strings.ToLower(name))
		maxLen := float64(max(len(query), len(name)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestIndex = i
		}
	}
	if bestIndex >= 0 {
		return teamIDs[bestIndex], true
	}

	ranks := fuzzy.RankFindFold(query, names)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return teamIDs[ranks[0].OriginalIndex], true
}
