package session

import (
	"strings"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// maxKeywordsAdded caps the additions surfaced as keywordsAdded
const maxKeywordsAdded = 10

// CompareVersions summarizes what changed between two versions using a
// case-insensitive word-set difference. Line-level modifications are not computed.
func CompareVersions(before, after types.CVVersion) types.CVComparison {
	beforeWords := wordSet(before.Content)
	afterWords := wordSet(after.Content)

	additions := difference(afterWords, beforeWords)
	deletions := difference(beforeWords, afterWords)

	keywordsAdded := additions
	if len(keywordsAdded) > maxKeywordsAdded {
		keywordsAdded = keywordsAdded[:maxKeywordsAdded]
	}

	return types.CVComparison{
		Before: before,
		After:  after,
		Changes: types.CVChanges{
			Additions:     additions,
			Deletions:     deletions,
			Modifications: []types.Modification{},
		},
		ScoreIncrease:      after.OptimizationScore - before.OptimizationScore,
		KeywordsAdded:      append([]string{}, keywordsAdded...),
		SuggestionsApplied: len(after.AppliedSuggestions),
	}
}

// orderedSet keeps words in first-appearance order
type orderedSet struct {
	order   []string
	members map[string]struct{}
}

func wordSet(text string) orderedSet {
	set := orderedSet{members: make(map[string]struct{})}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, ok := set.members[w]; ok {
			continue
		}
		set.members[w] = struct{}{}
		set.order = append(set.order, w)
	}
	return set
}

// difference returns words of a that are not in b, in a's order
func difference(a, b orderedSet) []string {
	out := make([]string, 0)
	for _, w := range a.order {
		if _, ok := b.members[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
