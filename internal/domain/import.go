package domain

// ImportSummary tallies one import run.
type ImportSummary struct {
	Imported int
	Ignored  int
	Sources  map[Source]SourceSummary
}

// SourceSummary is the per-feed breakdown of an import run. Fetched counts
// the tickets decoded from the feed payload.
type SourceSummary struct {
	Fetched  int
	Imported int
	Ignored  int
}
