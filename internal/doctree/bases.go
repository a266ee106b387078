package doctree

import "github.com/agentflare-ai/doctree/internal/source"

// DirectParents returns the immediate parents among ancestors. Every
// ancestor carries its own closure (itself plus its ancestors); a name that
// shows up in exactly one closure is not reachable through another
// ancestor and is therefore a direct parent. Order follows ancestors.
func DirectParents(ancestors []source.Ancestor) []string {
	counts := make(map[string]int)
	for _, a := range ancestors {
		seen := map[string]bool{a.Name: true}
		counts[a.Name]++
		for _, n := range a.Closure {
			if !seen[n] {
				seen[n] = true
				counts[n]++
			}
		}
	}

	var parents []string
	emitted := make(map[string]bool)
	for _, a := range ancestors {
		if counts[a.Name] == 1 && !emitted[a.Name] {
			emitted[a.Name] = true
			parents = append(parents, a.Name)
		}
	}
	return parents
}
