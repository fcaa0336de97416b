// Package quill is a headless content-management backend: a schema-driven
// store for user-defined content types and the content entries that conform
// to them, plus actors, sessions, and a minimal media catalog.
//
// The package is a library first. Construct a Service with functional
// options, plug in a Repository (in-memory or Postgres) and optionally a
// BlobStore for media bytes, and mount the HTTP surface from
// github.com/quillhq/quill/pkg/quill/api on any chi router:
//
//	repo := memory.New()
//	svc, err := quill.New(
//	    quill.WithRepository(repo),
//	    quill.WithTokenIssuer(quill.NewTokenIssuer(secret)),
//	)
//
// Uniqueness invariants (actor handle/email, content type slug, entry slug
// within a content type) are owned by the repository's unique indexes; the
// service's own read-before-write checks exist only to produce friendlier
// errors on the common path.
package quill
