// Package git reads commit history to date documentation pages.
//
// Only local repositories are consulted; a content tree outside any
// repository simply has no history.
package git
