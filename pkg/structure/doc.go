// Package structure derives editor views from a parsed document: numbered
// headings, collapsible outline regions and smart-block detection.
//
// Everything here is a pure function of an *mdast.Document; results are
// recomputed on every call and never cached on the tree.
package structure
