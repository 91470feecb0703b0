// Package web holds the embedded browser assets: the index page template,
// its script and stylesheet, and the favicon.
package web
