package web

import "embed"

// StaticFS embeds the single page app shell and its assets.
//
//go:embed static/*
var StaticFS embed.FS
