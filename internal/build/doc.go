// Package build is the canonical build execution pipeline for sitebuilder.
//
// A Builder plans one job per catalog element and one per content file under
// the pages directory, then runs the jobs on a bounded worker pool. Every job
// resolves its layout chain, renders it and writes the result. A failing job
// is logged and recorded in the Report; its siblings keep going.
package build
