// Package preflight runs readiness checks for mediadock: writable media,
// data and log directories, free space on the media volume, and reachability
// of the Discord webhook and remote storage origin.
//
// The daemon logs failed checks as warnings at startup; the status command
// prints every result. Checks never abort startup.
package preflight
