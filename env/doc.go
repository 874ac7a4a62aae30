// Package env holds the ordered list of environment entries that an
// environment run exports into a shell session.
//
// Four kinds of entry exist and they are always emitted in this order:
//
//	Single   assign a variable
//	Multi    prepend a value to a path-like variable
//	Script   source a script file
//	Command  run a raw shell command
//
// Within one kind the insertion order is kept.
package env
