// Package mediaurl turns stored media references into URLs a browser can load.
//
// Stored values arrive in several historical shapes: public paths such as
// /media/images/x.png, bare stored names, absolute storage URLs, and absolute
// URLs that were later wrapped in the media prefix (sometimes percent-encoded,
// as in /media/http%3A//host/media/images/x.png). Normalizer collapses all of
// them to the public path. Resolver then checks whether the file exists under
// the local media root and, when it does not, points the URL at the remote
// storage service instead. Binder combines both steps to build the template
// context for a user's profile image.
//
// Every function here is total: unrecognized input comes back unchanged and
// unusable input yields nil, never an error.
package mediaurl
