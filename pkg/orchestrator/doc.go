// Package orchestrator wires the loader → parser → transformer → renderer
// pipeline that turns route metadata into a hypermedia API index page.
package orchestrator
