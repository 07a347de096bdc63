// Package campaign implements outreach campaigns and the social posts
// attached to them.
//
// Post suggestions come from an optional Suggester (an LLM in production).
// When none is configured, or it fails, the service falls back to a
// deterministic drafter so callers always get drafts back. It depends on
// repository interfaces defined in this package and should never import
// from api/.
//
// Repository implementations live in repository/postgres/.
package campaign
