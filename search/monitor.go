package search

import "github.com/ShaileshDhama/finrag/core"

// SearchMonitor provides hooks to observe the hybrid search process.
// Implement this interface to track intermediate candidate lists and the
// final ranking during a search.
type SearchMonitor interface {
	Start(query string)
	AfterDenseSearch(matches []core.Match)
	AfterSparseSearch(matches []core.Match)
	AfterFusion(matches []core.Match)
	DenseFallback(err error)
	Finish(hits []core.Hit)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                   {}
func (n *noopMonitor) AfterDenseSearch(_ []core.Match)  {}
func (n *noopMonitor) AfterSparseSearch(_ []core.Match) {}
func (n *noopMonitor) AfterFusion(_ []core.Match)       {}
func (n *noopMonitor) DenseFallback(_ error)            {}
func (n *noopMonitor) Finish(_ []core.Hit)              {}
