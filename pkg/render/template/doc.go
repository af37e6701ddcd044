// Package template defines the seam between renderers and a template engine.
// Renderers depend on Renderer; gotemplate provides the pongo2 implementation.
package template
