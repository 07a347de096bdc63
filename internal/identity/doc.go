// Package identity turns raw prospect contact fields into canonical
// comparison keys and decides whether a candidate collides with a prospect
// that already exists.
//
// Matching is exact string equality on two keys evaluated in order: the
// normalized email, and only when no email is present, the pair of
// normalized website domain and normalized contact name. Whether the matched
// row is suppressed is reported separately from the match itself.
package identity
