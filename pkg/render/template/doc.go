// Package template defines the template renderer seam used by template-backed
// tag builders. The gotemplate subpackage provides a pongo2 implementation.
package template
