// Package rewrite turns the body of a method declaration into an instrumented
// one. The generated code starts an OpenTelemetry span named after the method
// and its receiver type, runs the original body inside it and finishes the span
// according to the control-flow shape of the method:
//
//   - Plain: the span ends when the method returns.
//   - Async: the method returns a channel, the span ends once the channel is drained.
//   - Generator: the method returns an iter.Seq or iter.Seq2, the span covers iteration.
//   - AsyncGenerator: the method returns an iter.Seq2[T, error], every yielded error is recorded.
//
// A rewrite is a pure function of the declaration, the configuration and the
// local names generated code refers to. It is available as an AST and as source
// text wrapping the original body text.
package rewrite
