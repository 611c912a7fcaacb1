// Package validate checks call-flow graphs for structural problems before
// deployment: unreachable blocks, paths that stop without terminating the
// call, and input blocks missing mandatory error handlers.
//
// [Analyze] collects every issue non-fatally; [Validate] turns a non-empty
// report into one aggregated error. Structural issues are never raised
// individually.
package validate
