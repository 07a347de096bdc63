// Package domain holds the records the prospect desk stores and serves:
// prospects and their notes, sources with their ideal customer profile,
// campaigns with social posts, and cached domain profiles with fit scores.
//
// Types here carry JSON and DB tags and small pure helpers such as status
// validation. They import nothing from the rest of the module.
package domain
