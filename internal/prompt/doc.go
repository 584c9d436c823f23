// Package prompt implements the line-oriented question/answer loop the
// analysis workflow is driven by. It reads answers from any io.Reader so the
// whole workflow can be scripted in tests.
package prompt
