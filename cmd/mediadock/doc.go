// Command mediadock runs the mediadock daemon and administers its data.
//
// `mediadock serve` starts the storage, relay and web surfaces. The remaining
// commands work directly against the configured SQLite database and media
// root, so they are usable whether or not the daemon is running. They cover
// users and tokens, images, webhook tests, media URL resolution, the daemon
// log and a preflight status report.
package main
