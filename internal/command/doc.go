// Package command holds editing commands built on transactions.
//
// A Command inspects a state and, if it applies, builds one transaction and
// passes it to dispatch. It reports whether it applied. A nil dispatch asks
// only whether the command would apply. Commands never dispatch a
// transaction they could not build; a selection of the wrong kind makes
// them return false.
package command
