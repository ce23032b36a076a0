// Package journal persists an append-only record of generation job lifecycle
// events in SQLite. The JSON metadata stores keep only the ten most recent
// records per kind, so the journal is what remains for debugging older jobs:
// every submit, poll outcome, download, and sweep probe lands here.
package journal
