// Package dashboard provides the embedded web page for the userboard binary.
//
// The page renders the user list it receives over Server-Sent Events and
// never keeps state of its own: every event replaces the whole list.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the user list page.
//
//	assets/
//	  index.html    - list page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
