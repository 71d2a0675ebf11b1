// Package loader drives the fetch/loading/error/retry cycle behind every
// data-bound view.
//
// Resource is the generic piece: it runs one fetch sequence at a time,
// exposes Idle, Loading, Populated, or NotFound, and discards results from
// sequences that were superseded before they finished. DetailController
// builds the request detail view on top of it: the request first, then its
// workflow and comment thread.
package loader
