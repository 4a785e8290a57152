// Package shoutcast decodes SHOUTcast server status responses.
//
// Two endpoints are understood:
//   - v1 /currentsong: a bare "ARTIST - TITLE" text body
//   - v2 /stats?json=1: a JSON document with songtitle and listener counts
//
// Both return the raw song title; splitting it into artist and title is left
// to the caller.
package shoutcast
