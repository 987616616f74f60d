package mediaurl

// ContextKey is the template context key the binder populates.
const ContextKey = "request_user_image"

// Holder wraps a resolved URL so templates can render {{.URL}}.
type Holder struct {
	URL string
}

// ImageOwner is a record that may carry a profile image.
type ImageOwner interface {
	// ProfileImage returns the stored image reference, or nil when the
	// record has none.
	ProfileImage() Source
}

// Binder exposes a user's profile image to templates.
type Binder struct {
	Resolver Resolver
}

// Holder resolves src into a served URL. It returns nil for empty sources
// and for name-only sources that do not carry an absolute URL.
func (b Binder) Holder(src Source) *Holder {
	var raw string
	switch v := src.(type) {
	case Text:
		raw = string(v)
	case URLSource:
		raw = v.URL
	case NameSource:
		if !b.Resolver.Normalizer.isAbsoluteName(v.Name) {
			return nil
		}
		raw = v.Name
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	return &Holder{URL: b.Resolver.Resolve(b.Resolver.Normalizer.Normalize(raw))}
}

// Bind returns the template context for owner. The map always has exactly
// one entry, ContextKey, whose value is a *Holder or nil.
func (b Binder) Bind(owner ImageOwner) map[string]any {
	ctx := map[string]any{ContextKey: nil}
	if owner == nil {
		return ctx
	}
	if holder := b.Holder(owner.ProfileImage()); holder != nil {
		ctx[ContextKey] = holder
	}
	return ctx
}
