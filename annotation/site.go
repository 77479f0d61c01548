package annotation

// Site is where an annotation attaches.
type Site int

const (
	SiteType Site = iota
	SiteProperty
	SiteParameter
)

func (s Site) String() string {
	switch s {
	case SiteType:
		return "type"
	case SiteProperty:
		return "property"
	case SiteParameter:
		return "parameter"
	default:
		return "unknown"
	}
}
