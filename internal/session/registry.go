package session

import (
	"sync"

	"github.com/mrjoshuak/summabrowse/internal/dom"
)

// Registry owns the sessions of a process, one per page URL. Attaching to a
// page that already has a session returns the existing one, so a page is
// only ever initialized once.
type Registry struct {
	mu    sync.Mutex
	pages map[string]*Page
	opts  []Option
}

// NewRegistry creates an empty registry. opts apply to every page it opens.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		pages: make(map[string]*Page),
		opts:  opts,
	}
}

// Attach returns the session for pageURL, opening one over doc if none
// exists. The boolean reports whether a new session was opened; when it is
// false doc is ignored.
func (r *Registry) Attach(pageURL string, doc *dom.Document) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pages[pageURL]; ok {
		return p, false
	}
	p := Open(doc, pageURL, r.opts...)
	r.pages[pageURL] = p
	return p, true
}

// Get returns the session for pageURL, if any.
func (r *Registry) Get(pageURL string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[pageURL]
	return p, ok
}

// Detach ends the session for pageURL.
func (r *Registry) Detach(pageURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, pageURL)
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}
