// Package app resolves configuration and wires the wizard's dependencies.
//
// Config is loaded from viper (flags, INCORPORATOR_* environment, config
// file, defaults). NewWire builds the session store and manager, the remote
// name service client, the background name check coordinator and the
// logger from it; App runs wizard sessions over a Wire for the commands.
package app
