package rewrite

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/wikimigrate/internal/markdown"
)

type substitution struct {
	key         string
	replacement string
}

// applySubstitutions replaces every occurrence of each key in one left-to-right
// pass. Where keys overlap, the one starting first wins, and among keys starting
// at the same offset the longest wins. Replaced text is never rescanned.
// Substitutions that matched nowhere are returned.
func applySubstitutions(src string, subs []substitution) (string, []substitution) {
	if len(subs) == 0 {
		return src, nil
	}

	byFirstByte := make(map[byte][]int)
	for i, s := range subs {
		if s.key == "" {
			continue
		}
		byFirstByte[s.key[0]] = append(byFirstByte[s.key[0]], i)
	}
	for _, idx := range byFirstByte {
		sort.SliceStable(idx, func(a, b int) bool { return len(subs[idx[a]].key) > len(subs[idx[b]].key) })
	}

	applied := make([]bool, len(subs))
	var edits []markdown.Edit
	for i := 0; i < len(src); {
		matched := -1
		for _, si := range byFirstByte[src[i]] {
			if strings.HasPrefix(src[i:], subs[si].key) {
				matched = si
				break
			}
		}
		if matched < 0 {
			i++
			continue
		}
		s := subs[matched]
		edits = append(edits, markdown.Edit{Start: i, End: i + len(s.key), Replacement: s.replacement})
		applied[matched] = true
		i += len(s.key)
	}

	// Edits come from a forward scan and cannot overlap.
	out, err := markdown.ApplyEdits(src, edits)
	if err != nil {
		return src, subs
	}

	var unapplied []substitution
	for i, ok := range applied {
		if !ok {
			unapplied = append(unapplied, subs[i])
		}
	}
	return out, unapplied
}
