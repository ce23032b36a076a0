// Package gallery reconciles the on-disk media library with the JSON
// metadata stores into the unified item list the web app renders.
//
// Disk is the source of truth for which files exist; the stores only
// contribute prompt metadata. A file with no surviving metadata record (the
// stores keep just the most recent entries) still appears in the gallery as
// an orphan with empty prompt fields.
package gallery
