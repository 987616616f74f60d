// Package web renders the signed-in user's profile page.
//
// The profile image reference stored on the user may be a stored file name,
// a public /media/ path or an absolute storage URL. The page binds it through
// mediaurl.Binder so the rendered <img> always points at a location that
// serves the file: the local media path when the file exists under the media
// root, otherwise the remote storage origin.
package web
