// Package catalog holds the application config table: for every app kind,
// the title, icon tag and default size a new window starts with, whether
// the kind may have several live windows, and whether it appears in the dock.
//
// The table ships embedded as YAML and can be replaced by a file at startup.
package catalog
