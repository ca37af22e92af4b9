// Package web embeds the HTML templates and static assets served by the
// application.
package web

import "embed"

// TemplatesFS holds the page templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
