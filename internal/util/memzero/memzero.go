// Package memzero wipes secrets held in byte slices once they are no longer
// needed: derived keys, decrypted snapshots and the session passphrase.
package memzero

import "runtime"

// Zero overwrites b with zeros. Nil and empty slices are ignored.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	clear(b)
	// Keep b reachable until the wipe has happened.
	runtime.KeepAlive(b)
}
