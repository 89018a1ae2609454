/*
Package apps hosts the interactive applications behind open windows.

The Host listens to the window manager. When a terminal, files, code or
assistant window appears it attaches the matching session; when the window
closes the session is reclaimed and its background work cancelled. Other app
kinds are pure front-end and have no session.

Background work (assistant replies, delayed terminal output, folder polling)
goes through a per-session runner. Its results are applied only while the
window still exists, so a reply that arrives after its window closed is
dropped.
*/
package apps
