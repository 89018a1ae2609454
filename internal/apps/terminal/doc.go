/*
Package terminal implements the shell shown in Terminal windows.

A Session keeps a current folder, a bounded scrollback and a busy flag.
Commands operate on the virtual file system through the FS interface:

	pwd, ls [path|glob], cd [path], mkdir, touch, cat, rm [-r], find [glob]

plus the fixed commands help, clear, echo, whoami, neofetch, sudo, reboot
and ai. Globs use doublestar syntax relative to the current folder.

Slow commands (ai, sudo) hand their work to a Runner and return at once.
While ai is outstanding the session is busy and rejects input with ErrBusy.
*/
package terminal
