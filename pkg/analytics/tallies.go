package analytics

import (
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
)

func tallyInfo(t *deck.Tallies) TallyInfo {
	info := TallyInfo{Filters: map[string]int{}}
	if t == nil {
		return info
	}
	info.Tallies = len(t.Tallies)
	for _, f := range t.Filters() {
		info.Filters[string(f.Kind)]++
		info.Bins += len(f.Bins())
	}
	info.Meshes = len(t.Meshes())
	return info
}
