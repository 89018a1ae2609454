/*
Package files implements the Files window: a folder browser over the
virtual file system with back navigation, create and delete, and opening
files in the right viewer.

The browser caches the listing of its current folder. Poll re-reads it on a
ticker so edits made from the terminal or the editor show up without user
action.
*/
package files
