// Package siteindex provides a small same-origin site index.
// It crawls one fixed origin breadth-first under its robots.txt policy,
// reduces every page to plain text, keeps the result in memory with a
// versioned snapshot on disk, and answers keyword questions against it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, robotstxt/).
package siteindex
