package auth

import (
	"sort"
	"strings"

	"github.com/thomaslittle/usrp-backend/internal/domain"
)

// rankBuckets is the organizational precedence table for roster display.
// Earlier buckets outrank later ones. Rank strings are free text entered
// by admins, so matching goes through normalizeRank first.
var rankBuckets = [][]string{
	{"chief", "head"},
	{"captain", "lieutenant"},
	{"attending", "paramedic", "sr emt", "specialist"},
	{"doctor"},
	{"emt"},
	{"intern"},
}

// unrankedBucket sorts after every known rank
var unrankedBucket = len(rankBuckets)

// RankPrecedence returns the precedence bucket for a free-text rank string.
// Unknown or empty ranks land in the last bucket.
func RankPrecedence(rank string) int {
	normalized := normalizeRank(rank)
	if normalized == "" {
		return unrankedBucket
	}
	for bucket, names := range rankBuckets {
		for _, name := range names {
			if normalized == name {
				return bucket
			}
		}
	}
	return unrankedBucket
}

// SortByRank returns a new slice ordered by organizational precedence.
// Users sharing a precedence bucket keep their relative input order, so
// roster display is deterministic regardless of listing order upstream.
func SortByRank(users []*domain.User) []*domain.User {
	sorted := make([]*domain.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return RankPrecedence(sorted[i].Rank) < RankPrecedence(sorted[j].Rank)
	})
	return sorted
}

// normalizeRank lowercases, strips periods and collapses whitespace,
// so "Sr. EMT" and "sr emt" match the same table entry.
func normalizeRank(rank string) string {
	s := strings.ToLower(strings.TrimSpace(rank))
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
