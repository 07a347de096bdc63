// Package source manages lead lists and the ideal customer profile each
// one carries. Prospects reference a source by id; deleting a source
// detaches its prospects rather than removing them.
package source
