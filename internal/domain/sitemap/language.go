package sitemap

import (
	"github.com/cmsforge/sitetree/internal/domain/content"
)

// filterLanguage narrows a candidate set to the single most appropriate
// node for the lookup mode and language context.
//
// IsUnique is computed over the root-eligible subset of the original
// candidates, independent of which node is selected: it answers "is the
// page tree ambiguous at this path", not "did a language match succeed".
func filterLanguage(rc *Request, candidates []*content.Node, mode LookupMode) MatchResult {
	unique := countRootEligible(candidates) <= 1

	selected := selectCandidate(rc, candidates, mode)
	if selected == nil {
		return MatchResult{IsUnique: unique}
	}

	// A content variant cannot outlive its root: a selected content node
	// whose root is missing or deactivated is no match at all.
	if selected.IsContent() {
		if selected.RootID == nil {
			return MatchResult{IsUnique: unique}
		}
		root, ok := rc.Snapshot.Node(content.KindPage, *selected.RootID)
		if !ok || root.Deactivated {
			return MatchResult{IsUnique: unique}
		}
	}

	return MatchResult{Node: selected, IsUnique: unique}
}

func selectCandidate(rc *Request, candidates []*content.Node, mode LookupMode) *content.Node {
	if len(candidates) == 0 {
		return nil
	}

	if !rc.Language.Enabled {
		if root := firstRootEligible(candidates); root != nil {
			return root
		}
		return candidates[0]
	}

	switch mode {
	case ModeRootOnly:
		return firstRootEligible(candidates)

	case ModeLanguageContent:
		activeID := rc.Language.ActiveID()
		if activeID != nil {
			for _, node := range candidates {
				if node.IsContent() && node.LanguageID != nil && *node.LanguageID == *activeID {
					return node
				}
			}
		}
		// No localized content exists yet for this logical page: serve the
		// root itself. If content variants exist but none match the active
		// language, that is a language miss, not a fallback.
		if !anyContent(candidates) {
			return firstRootEligible(candidates)
		}
		return nil

	default: // ModeAny
		if root := firstRootEligible(candidates); root != nil {
			return root
		}
		return candidates[0]
	}
}

func countRootEligible(candidates []*content.Node) int {
	n := 0
	for _, node := range candidates {
		if node.RootEligible() {
			n++
		}
	}
	return n
}

func firstRootEligible(candidates []*content.Node) *content.Node {
	for _, node := range candidates {
		if node.RootEligible() {
			return node
		}
	}
	return nil
}

func anyContent(candidates []*content.Node) bool {
	for _, node := range candidates {
		if node.IsContent() {
			return true
		}
	}
	return false
}

// languageOrNeutral reports whether a locale-scoped entity (blog, forum)
// participates under the active language: language-neutral entities always
// do; tagged entities only when the tag matches.
func languageOrNeutral(rc *Request, node *content.Node) bool {
	if node.LanguageID == nil || !rc.Language.Enabled {
		return true
	}
	activeID := rc.Language.ActiveID()
	return activeID != nil && *node.LanguageID == *activeID
}
