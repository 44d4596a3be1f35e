package wavegen

import "strings"

// splitList splits a comma-joined candidate list, trimming entries and
// dropping empty ones.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// pick chooses one candidate. A single candidate costs no random draw.
// random is false when every candidate is the same name.
func (r *run) pick(candidates []string) (choice string, random bool) {
	if len(candidates) == 1 {
		return candidates[0], false
	}
	choice = r.sample(candidates)
	for _, c := range candidates {
		if c != choice {
			return choice, true
		}
	}
	return choice, false
}

// knownTypes keeps the bot types the catalog knows. Unknown entries of a
// real list are reported as defects.
func (r *run) knownTypes(category string, candidates []string, owner string) []string {
	out := candidates[:0:0]
	for _, c := range candidates {
		if r.catalog.Exists(c) {
			out = append(out, c)
			continue
		}
		if len(candidates) > 1 {
			r.defect(category, "unknown bot type removed from list", "owner", owner, "type", c)
		}
	}
	return out
}

// knownDifficulties keeps the lower-cased difficulties botType ships.
func (r *run) knownDifficulties(category, botType string, candidates []string, owner string) []string {
	out := candidates[:0:0]
	for _, c := range candidates {
		d := strings.ToLower(c)
		if r.catalog.HasDifficulty(botType, d) {
			out = append(out, d)
			continue
		}
		if len(candidates) > 1 {
			r.defect(category, "unknown difficulty removed from list", "owner", owner, "type", botType, "difficulty", c)
		}
	}
	return out
}

// resolveType resolves a comma-joined type list to one known type.
func (r *run) resolveType(category, list, owner string) (string, bool) {
	known := r.knownTypes(category, splitList(list), owner)
	if len(known) == 0 {
		return "", false
	}
	t, _ := r.pick(known)
	return t, true
}

// resolveDifficulty resolves a comma-joined difficulty list to one
// lower-cased difficulty of botType.
func (r *run) resolveDifficulty(category, botType, list, owner string) (string, bool) {
	known := r.knownDifficulties(category, botType, splitList(list), owner)
	if len(known) == 0 {
		return "", false
	}
	d, _ := r.pick(known)
	return d, true
}
