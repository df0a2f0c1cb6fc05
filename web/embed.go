package web

import "embed"

// TemplatesFS embeds the HTML templates for report rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets inlined into the rendered document.
//
//go:embed static/*
var StaticFS embed.FS
