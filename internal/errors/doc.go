// Package errors provides classified error primitives used across sitebuilder.
//
// A ClassifiedError carries a category, a severity and structured context.
// Categories mirror the build's failure taxonomy:
//   - CategoryConfig: metadata file missing or unparsable (fatal, aborts the build)
//   - CategoryNotFound: a content file or layout does not exist
//   - CategoryFrontMatter: a front matter header is malformed
//   - CategoryCyclicLayout: a layout chain revisits a layout
//   - CategoryTemplate: a template failed to parse or render
//   - CategoryFileSystem: output could not be written
//
// Everything except CategoryConfig is scoped to a single page chain: the
// build logs it and continues with sibling chains.
//
// Example usage:
//
//	err := errors.NotFoundError("layout not found").
//		WithContext("path", "layouts/base.html").
//		WithCause(statErr).
//		Build()
package errors
