// Package enrichment produces context about prospects that never takes
// part in identity matching: a cached plain-text profile of the company
// website and a fit score against the source's ideal customer profile.
//
// Every collaborator failure degrades. A failed fetch is cached as an
// error-status profile, and a failed AI scorer falls back to the keyword
// heuristic in heuristic.go.
package enrichment
