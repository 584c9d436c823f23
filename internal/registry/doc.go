// Package registry maps the plot kinds a workflow file may name to the
// analysis library methods that render them.
//
// Modules register their kinds at startup. The workflow loader then checks
// every `plot "<kind>"` block against the registry, so a typo in a workflow
// file fails before any prompt is shown instead of halfway through a session.
package registry
