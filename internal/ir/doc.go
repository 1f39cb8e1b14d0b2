// Package ir defines the intermediate representation a front-end
// populates before a backend lowers it to source text.
//
// The model is handle based: values and blocks are small integer IDs
// indexing append-only tables inside their owning container, never
// pointers between nodes. Instructions may be stored as values, so an
// expression tree is represented by embedding an instruction directly
// in a table entry; backends render such trees in one recursive pass.
//
// Construction is append-only and single-threaded: exactly one builder
// session populates a block at a time, and handles issued earlier are
// never invalidated. Once a Module is handed to a backend it is treated
// as read-only.
package ir
