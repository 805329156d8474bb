// Package weave walks a parsed Go file, picks methods eligible for
// instrumentation and replaces their bodies with instrumented ones.
//
// Transform never modifies its input. A changed file is produced as source
// text, with original method bodies kept verbatim inside the generated code,
// and parsed back into the caller's file set. An ineligible file, or an
// eligible one where nothing was rewritten, is returned as is.
package weave
