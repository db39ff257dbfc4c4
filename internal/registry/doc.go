// Package registry is an in-memory name registry with an HTTP front end. It
// backs the development name-check service and the remote client tests; it
// never holds anything but public entity names.
package registry
