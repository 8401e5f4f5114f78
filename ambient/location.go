package ambient

import (
	"net/url"

	"github.com/ruteri/getipfs/interfaces"
)

type locationRoot struct {
	interfaces.Root
	location *url.URL
}

func (r *locationRoot) Location() *url.URL {
	return r.location
}

// WithLocation returns root reporting u as its location.
func WithLocation(root interfaces.Root, u *url.URL) interfaces.Root {
	return &locationRoot{Root: root, location: u}
}
